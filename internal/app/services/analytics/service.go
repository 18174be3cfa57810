// Package analytics computes the admin dashboard aggregates.
package analytics

import (
	"context"
	"slices"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// RecentActivityLimit is how many activity entries the overview carries.
const RecentActivityLimit = 5

// RequestCounter counts help requests.
type RequestCounter interface {
	Count(ctx context.Context, f models.HelpRequestFilter) (int64, error)
	CountBy(ctx context.Context, field string) (map[string]int64, error)
}

// VolunteerCounter counts volunteers.
type VolunteerCounter interface {
	Count(ctx context.Context, f models.VolunteerFilter) (int64, error)
}

// InventoryTotaler sums stock.
type InventoryTotaler interface {
	Totals(ctx context.Context) (models.InventoryTotals, error)
}

// ActivityReader reads the newest activity entries.
type ActivityReader interface {
	Recent(ctx context.Context, limit int64) ([]models.ActivityLog, error)
}

type Service struct {
	requests   RequestCounter
	volunteers VolunteerCounter
	inventory  InventoryTotaler
	activity   ActivityReader
}

func New(requests RequestCounter, volunteers VolunteerCounter, inventory InventoryTotaler, activity ActivityReader) *Service {
	return &Service{requests: requests, volunteers: volunteers, inventory: inventory, activity: activity}
}

// UrgencyCounts is zero-filled for every urgency.
type UrgencyCounts struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

type ResolutionCounts struct {
	Resolved   int64 `json:"resolved"`
	Unresolved int64 `json:"unresolved"`
}

// HelpTypeCount names the most requested type. Type is "none" when there
// are no requests.
type HelpTypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type Analytics struct {
	TotalSignups          int64            `json:"totalSignups"`
	TotalHelpRequests     int64            `json:"totalHelpRequests"`
	RequestsByUrgency     UrgencyCounts    `json:"requestsByUrgency"`
	ResolvedVsUnresolved  ResolutionCounts `json:"resolvedVsUnresolved"`
	MostRequestedHelpType HelpTypeCount    `json:"mostRequestedHelpType"`
}

// Analytics runs the counts concurrently and fails if any of them fails.
func (s *Service) Analytics(ctx context.Context) (Analytics, error) {
	var (
		out      Analytics
		byUrg    map[string]int64
		byStatus map[string]int64
		byType   map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalSignups, err = s.volunteers.Count(gctx, models.VolunteerFilter{ActiveOnly: true})
		return err
	})
	g.Go(func() (err error) {
		out.TotalHelpRequests, err = s.requests.Count(gctx, models.HelpRequestFilter{})
		return err
	})
	g.Go(func() (err error) {
		byUrg, err = s.requests.CountBy(gctx, "urgency")
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = s.requests.CountBy(gctx, "status")
		return err
	})
	g.Go(func() (err error) {
		byType, err = s.requests.CountBy(gctx, "request_type")
		return err
	})
	if err := g.Wait(); err != nil {
		return Analytics{}, apperr.Internal("Failed to compute analytics", err)
	}

	out.RequestsByUrgency = UrgencyCounts{
		High:   byUrg[models.UrgencyHigh],
		Medium: byUrg[models.UrgencyMedium],
		Low:    byUrg[models.UrgencyLow],
	}
	for status, n := range byStatus {
		if status == models.RequestStatusResolved {
			out.ResolvedVsUnresolved.Resolved += n
		} else {
			out.ResolvedVsUnresolved.Unresolved += n
		}
	}
	out.MostRequestedHelpType = mostRequested(byType)
	return out, nil
}

// mostRequested picks the highest count. Ties go to the alphabetically
// first type so the answer is stable.
func mostRequested(counts map[string]int64) HelpTypeCount {
	best := HelpTypeCount{Type: "none"}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	slices.Sort(types)
	for _, t := range types {
		if counts[t] > best.Count {
			best = HelpTypeCount{Type: t, Count: counts[t]}
		}
	}
	return best
}

type Overview struct {
	TotalHelpRequests       int64                `json:"totalHelpRequests"`
	OpenRequests            int64                `json:"openRequests"`
	ResolvedRequests        int64                `json:"resolvedRequests"`
	TotalVolunteers         int64                `json:"totalVolunteers"`
	AvailableVolunteers     int64                `json:"availableVolunteers"`
	TotalResourcesAvailable int64                `json:"totalResourcesAvailable"`
	TotalResourceItems      int64                `json:"totalResourceItems"`
	RecentActivity          []models.ActivityLog `json:"recentActivity"`
}

// Overview is the admin landing page summary.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var (
		out    Overview
		totals models.InventoryTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalHelpRequests, err = s.requests.Count(gctx, models.HelpRequestFilter{})
		return err
	})
	g.Go(func() (err error) {
		out.ResolvedRequests, err = s.requests.Count(gctx, models.HelpRequestFilter{Status: models.RequestStatusResolved})
		return err
	})
	g.Go(func() (err error) {
		out.OpenRequests, err = s.requests.Count(gctx, models.HelpRequestFilter{
			Statuses: []string{models.RequestStatusNew, models.RequestStatusInProgress},
		})
		return err
	})
	g.Go(func() (err error) {
		out.TotalVolunteers, err = s.volunteers.Count(gctx, models.VolunteerFilter{ActiveOnly: true})
		return err
	})
	g.Go(func() (err error) {
		out.AvailableVolunteers, err = s.volunteers.Count(gctx, models.VolunteerFilter{
			ActiveOnly:         true,
			ApprovalStatus:     models.ApprovalApproved,
			AvailabilityStatus: models.AvailabilityAvailable,
		})
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.inventory.Totals(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.RecentActivity, err = s.activity.Recent(gctx, RecentActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, apperr.Internal("Failed to load overview", err)
	}
	out.TotalResourcesAvailable = totals.TotalQuantity
	out.TotalResourceItems = totals.ItemCount
	if out.RecentActivity == nil {
		out.RecentActivity = []models.ActivityLog{}
	}
	return out, nil
}
