// Package marketing captures subscriber emails and runs bulk campaigns.
package marketing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/mailer"
	"github.com/steadybroo69-afk/gym/pkg/logx"
)

const (
	batchSize      = 50
	batchWorkers   = 10
	interBatchWait = time.Second
)

// Subscribers is the subscription storage surface.
type Subscribers interface {
	Create(ctx context.Context, sub domain.EmailSubscription) error
	Exists(ctx context.Context, email string, source domain.SubscriptionSource, productID string) (bool, error)
	List(ctx context.Context, source domain.SubscriptionSource) ([]domain.EmailSubscription, error)
	CountBySource(ctx context.Context) (map[domain.SubscriptionSource]int, error)
	Emails(ctx context.Context, source domain.SubscriptionSource) ([]string, error)
}

// EmailSource yields recipient addresses for a bulk target.
type EmailSource interface {
	Emails(ctx context.Context) ([]string, error)
}

// GiveawayNotifier announces giveaway entries to the automation sink.
type GiveawayNotifier interface {
	GiveawayEntry(ctx context.Context, email string)
}

// SubscribeResult mirrors the storefront's subscription response.
type SubscribeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

// Stats is the per-source subscription breakdown.
type Stats struct {
	Total         int `json:"total"`
	GiveawayPopup int `json:"giveaway_popup"`
	EarlyAccess   int `json:"early_access"`
	NotifyMe      int `json:"notify_me"`
}

// BulkResult reports a campaign's outcome.
type BulkResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	SentCount       int    `json:"sent_count"`
	FailedCount     int    `json:"failed_count"`
	TotalRecipients int    `json:"total_recipients"`
}

type Service struct {
	subs     Subscribers
	users    EmailSource
	waitlist EmailSource
	hooks    GiveawayNotifier
	sender   mailer.Sender
	from     string
	pause    time.Duration
}

func NewService(subs Subscribers, users, waitlist EmailSource, hooks GiveawayNotifier, sender mailer.Sender, from string) *Service {
	return &Service{
		subs:     subs,
		users:    users,
		waitlist: waitlist,
		hooks:    hooks,
		sender:   sender,
		from:     from,
		pause:    interBatchWait,
	}
}

// Subscribe captures an email for a source. notify_me allows the same email
// once per product; the other sources allow it once overall. Giveaway
// entries additionally ping the automation webhook.
func (s *Service) Subscribe(ctx context.Context, email string, source domain.SubscriptionSource, productID, productName, drop string) (SubscribeResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return SubscribeResult{}, fmt.Errorf("invalid email address")
	}
	if !domain.ValidSubscriptionSource(source) {
		return SubscribeResult{}, fmt.Errorf("unknown subscription source %q", source)
	}

	dupProductID := ""
	if source == domain.SourceNotifyMe {
		dupProductID = productID
	}
	exists, err := s.subs.Exists(ctx, email, source, dupProductID)
	if err != nil {
		return SubscribeResult{}, fmt.Errorf("check subscription: %w", err)
	}
	if exists {
		msg := "This email is already subscribed."
		if source == domain.SourceNotifyMe {
			msg = "This email is already subscribed for this product."
		}
		return SubscribeResult{Success: false, Message: msg, Email: email}, nil
	}

	if drop == "" {
		drop = "Drop 01"
	}
	sub := domain.EmailSubscription{
		ID:          uuid.NewString(),
		Email:       email,
		Source:      source,
		ProductID:   productID,
		ProductName: productName,
		Drop:        drop,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return SubscribeResult{}, fmt.Errorf("create subscription: %w", err)
	}

	if source == domain.SourceGiveawayPopup && s.hooks != nil {
		go s.hooks.GiveawayEntry(context.WithoutCancel(ctx), email)
	}

	return SubscribeResult{Success: true, Message: "Successfully subscribed!", Email: email}, nil
}

func (s *Service) List(ctx context.Context, source domain.SubscriptionSource) ([]domain.EmailSubscription, error) {
	return s.subs.List(ctx, source)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.subs.CountBySource(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		GiveawayPopup: counts[domain.SourceGiveawayPopup],
		EarlyAccess:   counts[domain.SourceEarlyAccess],
		NotifyMe:      counts[domain.SourceNotifyMe],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// SendBulk fans a campaign out to the chosen audience in batches of 50 with
// bounded concurrency and a pause between batches.
func (s *Service) SendBulk(ctx context.Context, target, subject, html string) (BulkResult, error) {
	emails, err := s.recipients(ctx, target)
	if err != nil {
		return BulkResult{}, err
	}
	if len(emails) == 0 {
		return BulkResult{Success: false, Message: "No recipients found"}, nil
	}

	var sent, failed atomic.Int64
	for start := 0; start < len(emails); start += batchSize {
		end := start + batchSize
		if end > len(emails) {
			end = len(emails)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchWorkers)
		for _, email := range emails[start:end] {
			email := email
			g.Go(func() error {
				err := s.sender.Send(gctx, mailer.Message{
					From:    s.from,
					To:      []string{email},
					Subject: subject,
					HTML:    html,
				})
				if err != nil {
					logx.Error().Err(err).Str("email", email).Msg("bulk email send failed")
					failed.Add(1)
					return nil
				}
				sent.Add(1)
				return nil
			})
		}
		_ = g.Wait()

		if end < len(emails) {
			select {
			case <-ctx.Done():
				return BulkResult{}, ctx.Err()
			case <-time.After(s.pause):
			}
		}
	}

	return BulkResult{
		Success:         true,
		Message:         "Bulk email sent",
		SentCount:       int(sent.Load()),
		FailedCount:     int(failed.Load()),
		TotalRecipients: len(emails),
	}, nil
}

func (s *Service) recipients(ctx context.Context, target string) ([]string, error) {
	var groups [][]string

	collect := func(emails []string, err error) error {
		if err != nil {
			return err
		}
		groups = append(groups, emails)
		return nil
	}

	switch target {
	case "all":
		if err := collect(s.subs.Emails(ctx, "")); err != nil {
			return nil, err
		}
		if err := collect(s.users.Emails(ctx)); err != nil {
			return nil, err
		}
	case "subscribers":
		if err := collect(s.subs.Emails(ctx, "")); err != nil {
			return nil, err
		}
	case "users":
		if err := collect(s.users.Emails(ctx)); err != nil {
			return nil, err
		}
	case "waitlist":
		if err := collect(s.waitlist.Emails(ctx)); err != nil {
			return nil, err
		}
	case "early_access":
		if err := collect(s.subs.Emails(ctx, domain.SourceEarlyAccess)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown bulk email target %q", target)
	}

	seen := make(map[string]struct{})
	var emails []string
	for _, group := range groups {
		for _, email := range group {
			email = strings.ToLower(email)
			if _, ok := seen[email]; ok {
				continue
			}
			seen[email] = struct{}{}
			emails = append(emails, email)
		}
	}
	sort.Strings(emails)
	return emails, nil
}
