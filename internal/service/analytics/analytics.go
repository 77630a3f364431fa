// Package analytics derives pipeline metrics from one account's records.
// Nothing is cached: every snapshot is computed from the current record set.
package analytics

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/Jeevannn11/CareerFlow/internal/domain"
)

// RecentLimit caps the recent activity list.
const RecentLimit = 5

// StatusCount pairs a status with the number of records in it.
type StatusCount struct {
	Status domain.Status `json:"status"`
	Count  int           `json:"count"`
}

// Snapshot is the analytics view returned by GET /analytics.
type Snapshot struct {
	TotalApplications int                   `json:"totalApplications"`
	CountByStatus     map[domain.Status]int `json:"countByStatus"`
	InterviewRate     int                   `json:"interviewRate"`
	OfferCount        int                   `json:"offerCount"`
	RejectedCount     int                   `json:"rejectedCount"`
	RecentActivity    []domain.Application  `json:"recentActivity"`
	Distribution      []StatusCount         `json:"distribution"`
	UpcomingRounds    []domain.Application  `json:"upcomingRounds"`
}

// Compute builds a Snapshot from records. now decides which next rounds are
// still upcoming; a round earlier today still counts.
func Compute(records []domain.Application, now time.Time) Snapshot {
	snap := Snapshot{
		TotalApplications: len(records),
		CountByStatus:     make(map[domain.Status]int, len(domain.Statuses())),
		RecentActivity:    []domain.Application{},
		Distribution:      []StatusCount{},
		UpcomingRounds:    []domain.Application{},
	}
	for _, s := range domain.Statuses() {
		snap.CountByStatus[s] = 0
	}
	for _, r := range records {
		if r.Status.Valid() {
			snap.CountByStatus[r.Status]++
		}
	}

	if snap.TotalApplications > 0 {
		progressed := snap.CountByStatus[domain.StatusInterview] + snap.CountByStatus[domain.StatusOffer]
		snap.InterviewRate = int(math.Round(100 * float64(progressed) / float64(snap.TotalApplications)))
	}
	snap.OfferCount = snap.CountByStatus[domain.StatusOffer]
	snap.RejectedCount = snap.CountByStatus[domain.StatusRejected]

	for _, s := range domain.Statuses() {
		if n := snap.CountByStatus[s]; n > 0 {
			snap.Distribution = append(snap.Distribution, StatusCount{Status: s, Count: n})
		}
	}

	recent := append([]domain.Application(nil), records...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].LastActivity().After(recent[j].LastActivity())
	})
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	snap.RecentActivity = append(snap.RecentActivity, recent...)

	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for _, r := range records {
		if r.NextRoundDate != nil && !r.NextRoundDate.Before(today) {
			snap.UpcomingRounds = append(snap.UpcomingRounds, r)
		}
	}
	sort.SliceStable(snap.UpcomingRounds, func(i, j int) bool {
		return snap.UpcomingRounds[i].NextRoundDate.Before(*snap.UpcomingRounds[j].NextRoundDate)
	})
	return snap
}

// Lister loads an owner's records.
type Lister interface {
	List(ctx context.Context, ownerID, query string) ([]domain.Application, error)
}

// Service loads records and computes a Snapshot on every call.
type Service struct {
	records Lister
	logger  *slog.Logger
	now     func() time.Time
}

// New returns an analytics service reading from records.
func New(records Lister, logger *slog.Logger) Service {
	return Service{records: records, logger: logger, now: time.Now}
}

// Snapshot computes analytics for ownerID.
func (s Service) Snapshot(ctx context.Context, ownerID string) (Snapshot, error) {
	records, err := s.records.List(ctx, ownerID, "")
	if err != nil {
		return Snapshot{}, err
	}
	snap := Compute(records, s.now())
	s.logger.Debug("analytics computed", "owner_id", ownerID, "total", snap.TotalApplications)
	return snap, nil
}
