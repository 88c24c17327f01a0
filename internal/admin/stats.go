package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Stats is the dashboard summary.
type Stats struct {
	TotalUsers          int    `json:"total_users"`
	TotalSubscribers    int    `json:"total_subscribers"`
	TotalOrders         int    `json:"total_orders"`
	TotalWaitlist       int    `json:"total_waitlist"`
	TotalRevenue        string `json:"total_revenue"`
	RecentUsers7d       int    `json:"recent_users_7d"`
	RecentSubscribers7d int    `json:"recent_subscribers_7d"`
}

// Counters is the slice of the repositories the dashboard reads.
type Counters struct {
	Users interface {
		Count(ctx context.Context) (int, error)
		CountSince(ctx context.Context, since time.Time) (int, error)
	}
	Subscribers interface {
		Count(ctx context.Context) (int, error)
		CountSince(ctx context.Context, since time.Time) (int, error)
	}
	Orders interface {
		CountAndRevenue(ctx context.Context, since time.Time) (int, decimal.Decimal, error)
	}
	Waitlist interface {
		Count(ctx context.Context) (int, error)
	}
}

type StatsService struct {
	counters Counters
	now      func() time.Time
}

func NewStatsService(counters Counters) *StatsService {
	return &StatsService{counters: counters, now: time.Now}
}

func (s *StatsService) Collect(ctx context.Context) (Stats, error) {
	var (
		stats Stats
		err   error
	)

	if stats.TotalUsers, err = s.counters.Users.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalSubscribers, err = s.counters.Subscribers.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count subscribers: %w", err)
	}
	if stats.TotalWaitlist, err = s.counters.Waitlist.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count waitlist: %w", err)
	}

	orders, revenue, err := s.counters.Orders.CountAndRevenue(ctx, time.Time{})
	if err != nil {
		return Stats{}, fmt.Errorf("order stats: %w", err)
	}
	stats.TotalOrders = orders
	stats.TotalRevenue = revenue.StringFixed(2)

	weekAgo := s.now().UTC().Add(-7 * 24 * time.Hour)
	if stats.RecentUsers7d, err = s.counters.Users.CountSince(ctx, weekAgo); err != nil {
		return Stats{}, fmt.Errorf("recent users: %w", err)
	}
	if stats.RecentSubscribers7d, err = s.counters.Subscribers.CountSince(ctx, weekAgo); err != nil {
		return Stats{}, fmt.Errorf("recent subscribers: %w", err)
	}
	return stats, nil
}
