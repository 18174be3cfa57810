// Package publicinfo serves the read-mostly public feeds (alerts, status
// tiles, updates, shelters, resources) and captures donation pledges.
package publicinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const MsgInvalidAmount = "Donation amount must be a positive number"

// Feeds reads the public collections.
type Feeds interface {
	ActiveAlert(ctx context.Context) (*models.Alert, error)
	Alerts(ctx context.Context) ([]models.Alert, error)
	StatusTiles(ctx context.Context) ([]models.StatusTile, error)
	Updates(ctx context.Context, limit int64) ([]models.Update, error)
	Shelters(ctx context.Context, openOnly bool) ([]models.Shelter, error)
	Resources(ctx context.Context, limit int64) ([]models.Resource, error)
}

// DonationStore persists pledges.
type DonationStore interface {
	Create(ctx context.Context, d models.Donation) (models.Donation, error)
	List(ctx context.Context) ([]models.Donation, error)
}

type Service struct {
	feeds     Feeds
	donations DonationStore
	log       *zap.Logger
}

func New(feeds Feeds, donations DonationStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{feeds: feeds, donations: donations, log: log}
}

// Dashboard assembles the landing page: the newest active alert, every
// status tile, recent updates, open shelters and recent resources.
func (s *Service) Dashboard(ctx context.Context) (models.Dashboard, error) {
	var d models.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.ActiveAlert, err = s.feeds.ActiveAlert(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.StatusTiles, err = s.feeds.StatusTiles(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Updates, err = s.feeds.Updates(gctx, models.DashboardUpdateLimit)
		return err
	})
	g.Go(func() (err error) {
		d.Shelters, err = s.feeds.Shelters(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		d.Resources, err = s.feeds.Resources(gctx, models.DashboardResourceLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Dashboard{}, apperr.Internal("Failed to load dashboard", err)
	}
	return d, nil
}

func (s *Service) Alerts(ctx context.Context) ([]models.Alert, error) {
	return wrap(s.feeds.Alerts(ctx))
}

func (s *Service) Updates(ctx context.Context) ([]models.Update, error) {
	return wrap(s.feeds.Updates(ctx, 0))
}

func (s *Service) Resources(ctx context.Context) ([]models.Resource, error) {
	return wrap(s.feeds.Resources(ctx, 0))
}

func (s *Service) Shelters(ctx context.Context, openOnly bool) ([]models.Shelter, error) {
	return wrap(s.feeds.Shelters(ctx, openOnly))
}

func wrap[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, apperr.Internal("Failed to load records", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// DonationInput is the pledge form.
type DonationInput struct {
	Name    string   `json:"name" label:"Name" validate:"min=2,max=80"`
	Email   string   `json:"email" label:"Email" validate:"email,max=160"`
	Amount  *float64 `json:"amount"`
	Message string   `json:"message" label:"Message" validate:"max=500"`
}

// Donate records a pledge and returns it with a reference code.
func (s *Service) Donate(ctx context.Context, in DonationInput) (models.Donation, error) {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Message = normalize.Name(in.Message)

	switch {
	case in.Name == "":
		return models.Donation{}, apperr.Validation("Invalid or missing field: name")
	case in.Email == "":
		return models.Donation{}, apperr.Validation("Invalid or missing field: email")
	case in.Amount == nil:
		return models.Donation{}, apperr.Validation("Invalid or missing field: amount")
	case *in.Amount <= 0:
		return models.Donation{}, apperr.Validation(MsgInvalidAmount)
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Donation{}, apperr.Validation(res.First())
	}

	d, err := s.donations.Create(ctx, models.Donation{
		Reference: newReference(),
		Name:      in.Name,
		Email:     in.Email,
		Amount:    *in.Amount,
		Message:   in.Message,
	})
	if err != nil {
		return models.Donation{}, apperr.Internal("Failed to save donation", err)
	}
	s.log.Info("donation pledged", zap.String("reference", d.Reference), zap.Float64("amount", d.Amount))
	return d, nil
}

// Donations lists pledges, newest first.
func (s *Service) Donations(ctx context.Context) ([]models.Donation, error) {
	return wrap(s.donations.List(ctx))
}

func newReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("RH-%s", id[:12])
}
