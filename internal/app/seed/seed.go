// Package seed loads starter content (alerts, status tiles, updates,
// shelters, resources, inventory, announcements) from YAML and writes it
// to collections that are still empty.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Announcement is the seedable part of models.Announcement.
type Announcement struct {
	Title     string `yaml:"title" validate:"required,max=140"`
	Body      string `yaml:"body" validate:"required,max=2000"`
	Published bool   `yaml:"published"`
}

// Data is one seed file.
type Data struct {
	Alerts        []models.Alert         `yaml:"alerts" validate:"dive"`
	StatusTiles   []models.StatusTile    `yaml:"statusTiles" validate:"dive"`
	Updates       []models.Update        `yaml:"updates"`
	Shelters      []models.Shelter       `yaml:"shelters" validate:"dive"`
	Resources     []models.Resource      `yaml:"resources"`
	Inventory     []models.InventoryItem `yaml:"inventory"`
	Announcements []Announcement         `yaml:"announcements" validate:"dive"`
}

// Default returns the embedded starter content.
func Default() (Data, error) {
	return Parse(bytes.NewReader(defaultYAML))
}

// LoadFile parses the seed file at path.
func LoadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a seed document. Unknown keys are rejected
// so a typo does not silently seed nothing.
func Parse(r io.Reader) (Data, error) {
	var d Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return Data{}, fmt.Errorf("parse seed data: %w", err)
	}
	if res := inputval.Validate(d); res.HasErrors() {
		return Data{}, fmt.Errorf("invalid seed data: %s", res.All())
	}
	for i, item := range d.Inventory {
		if item.Name == "" || item.Quantity < 0 || item.LowStockThreshold < 0 {
			return Data{}, fmt.Errorf("invalid seed data: inventory item %d needs a name and non-negative counts", i+1)
		}
	}
	return d, nil
}

// PublicInfoSeeder writes the public bulletin collections.
type PublicInfoSeeder interface {
	SeedAlerts(ctx context.Context, in []models.Alert) (int, error)
	SeedStatusTiles(ctx context.Context, in []models.StatusTile) (int, error)
	SeedUpdates(ctx context.Context, in []models.Update) (int, error)
	SeedShelters(ctx context.Context, in []models.Shelter) (int, error)
	SeedResources(ctx context.Context, in []models.Resource) (int, error)
}

// InventorySeeder writes starting stock.
type InventorySeeder interface {
	SeedIfEmpty(ctx context.Context, items []models.InventoryItem) (int, error)
}

// SiteContentSeeder reads and extends the site content singleton.
type SiteContentSeeder interface {
	Get(ctx context.Context) (models.SiteContent, error)
	PrependAnnouncement(ctx context.Context, a models.Announcement) (models.Announcement, error)
}

// Stores are the seed targets.
type Stores struct {
	PublicInfo  PublicInfoSeeder
	Inventory   InventorySeeder
	SiteContent SiteContentSeeder
}

// Result counts inserted documents per collection.
type Result struct {
	Alerts        int `json:"alerts"`
	StatusTiles   int `json:"statusTiles"`
	Updates       int `json:"updates"`
	Shelters      int `json:"shelters"`
	Resources     int `json:"resources"`
	Inventory     int `json:"inventory"`
	Announcements int `json:"announcements"`
}

// Total is the sum of every count.
func (r Result) Total() int {
	return r.Alerts + r.StatusTiles + r.Updates + r.Shelters + r.Resources + r.Inventory + r.Announcements
}

// Run seeds every collection concurrently. Collections that already hold
// data are left alone; announcements are added only when the feed is empty.
func Run(ctx context.Context, d Data, st Stores, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var res Result
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		res.Alerts, err = st.PublicInfo.SeedAlerts(ctx, d.Alerts)
		return wrap("alerts", err)
	})
	g.Go(func() (err error) {
		res.StatusTiles, err = st.PublicInfo.SeedStatusTiles(ctx, d.StatusTiles)
		return wrap("status tiles", err)
	})
	g.Go(func() (err error) {
		res.Updates, err = st.PublicInfo.SeedUpdates(ctx, d.Updates)
		return wrap("updates", err)
	})
	g.Go(func() (err error) {
		res.Shelters, err = st.PublicInfo.SeedShelters(ctx, d.Shelters)
		return wrap("shelters", err)
	})
	g.Go(func() (err error) {
		res.Resources, err = st.PublicInfo.SeedResources(ctx, d.Resources)
		return wrap("resources", err)
	})
	g.Go(func() (err error) {
		res.Inventory, err = st.Inventory.SeedIfEmpty(ctx, d.Inventory)
		return wrap("inventory", err)
	})
	g.Go(func() (err error) {
		res.Announcements, err = seedAnnouncements(ctx, st.SiteContent, d.Announcements)
		return wrap("announcements", err)
	})

	if err := g.Wait(); err != nil {
		logger.Error("seed failed", zap.Error(err))
		return Result{}, err
	}
	logger.Info("seed complete",
		zap.Int("alerts", res.Alerts),
		zap.Int("status_tiles", res.StatusTiles),
		zap.Int("updates", res.Updates),
		zap.Int("shelters", res.Shelters),
		zap.Int("resources", res.Resources),
		zap.Int("inventory", res.Inventory),
		zap.Int("announcements", res.Announcements))
	return res, nil
}

// seedAnnouncements keeps file order in the newest-first feed, so the
// first entry in the file ends up on top.
func seedAnnouncements(ctx context.Context, sc SiteContentSeeder, in []Announcement) (int, error) {
	if len(in) == 0 {
		return 0, nil
	}
	content, err := sc.Get(ctx)
	if err != nil {
		return 0, err
	}
	if len(content.Announcements) > 0 {
		return 0, nil
	}
	for i := len(in) - 1; i >= 0; i-- {
		a := in[i]
		if _, err := sc.PrependAnnouncement(ctx, models.Announcement{Title: a.Title, Body: a.Body, Published: a.Published}); err != nil {
			return len(in) - 1 - i, err
		}
	}
	return len(in), nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("seed %s: %w", what, err)
	}
	return nil
}
