// Package memstore provides in-memory implementations of the MongoDB stores
// with the same method sets and not-found semantics (mongo.ErrNoDocuments).
// Services and handlers are tested against it without a database.
package memstore

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DB bundles one of each store, sharing nothing but a clock.
type DB struct {
	HelpRequests *HelpRequests
	Volunteers   *Volunteers
	Inventory    *Inventory
	SiteContent  *SiteContent
	AdminUsers   *AdminUsers
	Activity     *Activity
	Donations    *Donations
	PublicInfo   *PublicInfo
	Tx           Tx
}

// New returns an empty in-memory database.
func New() *DB {
	return &DB{
		HelpRequests: &HelpRequests{},
		Volunteers:   &Volunteers{},
		Inventory:    &Inventory{},
		SiteContent:  &SiteContent{},
		AdminUsers:   &AdminUsers{},
		Activity:     &Activity{},
		Donations:    &Donations{},
		PublicInfo:   &PublicInfo{},
	}
}

// Tx runs fn directly; memstore has no transactions.
type Tx struct{}

// Run calls fn with ctx.
func (Tx) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// clock returns strictly increasing UTC timestamps so "newest first"
// ordering is deterministic even for writes in the same instant.
type clock struct {
	last time.Time
}

func (c *clock) now() time.Time {
	t := time.Now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// newestFirst sorts by the given time descending, then id descending.
func newestFirst[T any](items []T, at func(T) time.Time, id func(T) primitive.ObjectID) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := at(items[i]), at(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return id(items[i]).Hex() > id(items[j]).Hex()
	})
}

func limitSlice[T any](items []T, limit int64) []T {
	if limit > 0 && int64(len(items)) > limit {
		return items[:limit]
	}
	return items
}
