package marketing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steadybroo69-afk/gym/internal/domain"
	"github.com/steadybroo69-afk/gym/internal/mailer"
)

type fakeSubs struct {
	subs []domain.EmailSubscription
}

func (f *fakeSubs) Create(_ context.Context, sub domain.EmailSubscription) error {
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeSubs) Exists(_ context.Context, email string, source domain.SubscriptionSource, productID string) (bool, error) {
	for _, s := range f.subs {
		if s.Email != email || s.Source != source {
			continue
		}
		if productID != "" && s.ProductID != productID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeSubs) List(_ context.Context, source domain.SubscriptionSource) ([]domain.EmailSubscription, error) {
	if source == "" {
		return f.subs, nil
	}
	var out []domain.EmailSubscription
	for _, s := range f.subs {
		if s.Source == source {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubs) CountBySource(context.Context) (map[domain.SubscriptionSource]int, error) {
	counts := make(map[domain.SubscriptionSource]int)
	for _, s := range f.subs {
		counts[s.Source]++
	}
	return counts, nil
}

func (f *fakeSubs) Emails(_ context.Context, source domain.SubscriptionSource) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range f.subs {
		if source != "" && s.Source != source {
			continue
		}
		if _, ok := seen[s.Email]; ok {
			continue
		}
		seen[s.Email] = struct{}{}
		out = append(out, s.Email)
	}
	return out, nil
}

type staticEmails []string

func (s staticEmails) Emails(context.Context) ([]string, error) { return s, nil }

type fakeHooks struct {
	mu      sync.Mutex
	entries []string
	done    chan struct{}
}

func (f *fakeHooks) GiveawayEntry(_ context.Context, email string) {
	f.mu.Lock()
	f.entries = append(f.entries, email)
	f.mu.Unlock()
	close(f.done)
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []mailer.Message
	failOn map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(msg.To) == 1 && f.failOn[msg.To[0]] {
		return errors.New("bounced")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestService(subs *fakeSubs, users, waitlist staticEmails, hooks GiveawayNotifier, sender *fakeSender) *Service {
	svc := NewService(subs, users, waitlist, hooks, sender, "team@raze.test")
	svc.pause = time.Millisecond
	return svc
}

func TestSubscribeAndDuplicateRules(t *testing.T) {
	subs := &fakeSubs{}
	svc := newTestService(subs, nil, nil, nil, &fakeSender{})

	res, err := svc.Subscribe(context.Background(), "Alex@Example.com", domain.SourceEarlyAccess, "", "", "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Successfully subscribed!", res.Message)
	assert.Equal(t, "alex@example.com", res.Email)

	res, err = svc.Subscribe(context.Background(), "alex@example.com", domain.SourceEarlyAccess, "", "", "")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "This email is already subscribed.", res.Message)
}

func TestSubscribeNotifyMeDedupesPerProduct(t *testing.T) {
	subs := &fakeSubs{}
	svc := newTestService(subs, nil, nil, nil, &fakeSender{})

	res, err := svc.Subscribe(context.Background(), "alex@example.com", domain.SourceNotifyMe, "1", "Tee", "")
	require.NoError(t, err)
	assert.True(t, res.Success)

	// Same product: rejected.
	res, err = svc.Subscribe(context.Background(), "alex@example.com", domain.SourceNotifyMe, "1", "Tee", "")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "This email is already subscribed for this product.", res.Message)

	// Different product: accepted.
	res, err = svc.Subscribe(context.Background(), "alex@example.com", domain.SourceNotifyMe, "5", "Shorts", "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, subs.subs, 2)
}

func TestSubscribeRejectsUnknownSource(t *testing.T) {
	svc := newTestService(&fakeSubs{}, nil, nil, nil, &fakeSender{})

	_, err := svc.Subscribe(context.Background(), "alex@example.com", "mailing_list", "", "", "")
	assert.Error(t, err)
}

func TestGiveawaySubscriptionFiresWebhook(t *testing.T) {
	hooks := &fakeHooks{done: make(chan struct{})}
	svc := newTestService(&fakeSubs{}, nil, nil, hooks, &fakeSender{})

	res, err := svc.Subscribe(context.Background(), "alex@example.com", domain.SourceGiveawayPopup, "", "", "")
	require.NoError(t, err)
	assert.True(t, res.Success)

	select {
	case <-hooks.done:
	case <-time.After(time.Second):
		t.Fatal("giveaway webhook never fired")
	}
	assert.Equal(t, []string{"alex@example.com"}, hooks.entries)
}

func TestStats(t *testing.T) {
	subs := &fakeSubs{subs: []domain.EmailSubscription{
		{Email: "a@x.com", Source: domain.SourceGiveawayPopup},
		{Email: "b@x.com", Source: domain.SourceEarlyAccess},
		{Email: "c@x.com", Source: domain.SourceEarlyAccess},
		{Email: "d@x.com", Source: domain.SourceNotifyMe},
	}}
	svc := newTestService(subs, nil, nil, nil, &fakeSender{})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 4, GiveawayPopup: 1, EarlyAccess: 2, NotifyMe: 1}, stats)
}

func TestSendBulkDedupesAcrossSources(t *testing.T) {
	subs := &fakeSubs{subs: []domain.EmailSubscription{
		{Email: "shared@x.com", Source: domain.SourceEarlyAccess},
		{Email: "sub@x.com", Source: domain.SourceGiveawayPopup},
	}}
	sender := &fakeSender{}
	svc := newTestService(subs, staticEmails{"Shared@x.com", "user@x.com"}, nil, nil, sender)

	res, err := svc.SendBulk(context.Background(), "all", "Drop 02", "<p>soon</p>")
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 3, res.TotalRecipients)
	assert.Equal(t, 3, res.SentCount)
	assert.Zero(t, res.FailedCount)
}

func TestSendBulkCountsFailures(t *testing.T) {
	var entries []domain.EmailSubscription
	for i := 0; i < 120; i++ {
		entries = append(entries, domain.EmailSubscription{
			Email:  fmt.Sprintf("user%03d@x.com", i),
			Source: domain.SourceEarlyAccess,
		})
	}
	subs := &fakeSubs{subs: entries}
	sender := &fakeSender{failOn: map[string]bool{"user007@x.com": true, "user099@x.com": true}}
	svc := newTestService(subs, nil, nil, nil, sender)

	res, err := svc.SendBulk(context.Background(), "early_access", "Drop 02", "<p>soon</p>")
	require.NoError(t, err)

	assert.Equal(t, 120, res.TotalRecipients)
	assert.Equal(t, 118, res.SentCount)
	assert.Equal(t, 2, res.FailedCount)
}

func TestSendBulkNoRecipients(t *testing.T) {
	svc := newTestService(&fakeSubs{}, nil, nil, nil, &fakeSender{})

	res, err := svc.SendBulk(context.Background(), "waitlist", "Drop 02", "<p>soon</p>")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, strings.Contains(res.Message, "No recipients"))
}

func TestSendBulkUnknownTarget(t *testing.T) {
	svc := newTestService(&fakeSubs{}, nil, nil, nil, &fakeSender{})

	_, err := svc.SendBulk(context.Background(), "everyone", "s", "h")
	assert.Error(t, err)
}
