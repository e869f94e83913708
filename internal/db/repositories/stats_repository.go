package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// DashboardStats feeds the admin dashboard.
type DashboardStats struct {
	Users              map[string]int  `json:"users"`
	Prospects          int             `json:"prospects"`
	ActiveSponsors     int             `json:"activeSponsors"`
	SponsorTotal       decimal.Decimal `json:"sponsorTotal"`
	UpcomingEvents     int             `json:"upcomingEvents"`
	PendingSignups     int             `json:"pendingSignups"`
	VolunteerHours     float64         `json:"volunteerHours"`
	Documents          int             `json:"documents"`
	DraftAnnouncements int             `json:"draftAnnouncements"`
}

// StatsRepository runs aggregate reporting queries with sqlx.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

const (
	qUsersByRole = `SELECT role, COUNT(*) AS n FROM users WHERE account_type = 'member' GROUP BY role`
	qProspects   = `SELECT COUNT(*) FROM users WHERE account_type = 'prospect'`
	qSponsors    = `SELECT COUNT(*) AS n, COALESCE(SUM(total_amount), 0) AS total FROM sponsors WHERE status = 'active'`
	qUpcoming    = `SELECT COUNT(*) FROM events WHERE starts_at >= ?`
	qPending     = `SELECT COUNT(*) FROM volunteer_signups WHERE status = 'pending'`
	qHours       = `SELECT COALESCE(SUM(hours_completed), 0) FROM volunteer_profiles`
	qDocuments   = `SELECT COUNT(*) FROM documents`
	qDrafts      = `SELECT COUNT(*) FROM announcements WHERE published_at IS NULL`
)

// Dashboard gathers the admin counters. now bounds "upcoming" events.
func (r *StatsRepository) Dashboard(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{Users: map[string]int{}}

	var roles []struct {
		Role string `db:"role"`
		N    int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &roles, qUsersByRole); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	for _, row := range roles {
		stats.Users[row.Role] = row.N
	}

	var sponsors struct {
		N     int             `db:"n"`
		Total decimal.Decimal `db:"total"`
	}
	if err := r.db.GetContext(ctx, &sponsors, qSponsors); err != nil {
		return nil, fmt.Errorf("failed to sum sponsors: %w", err)
	}
	stats.ActiveSponsors = sponsors.N
	stats.SponsorTotal = sponsors.Total

	counts := []struct {
		query string
		dest  interface{}
		args  []interface{}
	}{
		{qProspects, &stats.Prospects, nil},
		{qUpcoming, &stats.UpcomingEvents, []interface{}{now}},
		{qPending, &stats.PendingSignups, nil},
		{qHours, &stats.VolunteerHours, nil},
		{qDocuments, &stats.Documents, nil},
		{qDrafts, &stats.DraftAnnouncements, nil},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, r.db.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("failed to run stats query: %w", err)
		}
	}

	return stats, nil
}
