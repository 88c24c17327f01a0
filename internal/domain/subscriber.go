package domain

import "time"

// SubscriptionSource identifies which surface captured the email.
type SubscriptionSource string

const (
	SourceGiveawayPopup SubscriptionSource = "giveaway_popup"
	SourceEarlyAccess   SubscriptionSource = "early_access"
	SourceNotifyMe      SubscriptionSource = "notify_me"
)

func ValidSubscriptionSource(s SubscriptionSource) bool {
	switch s {
	case SourceGiveawayPopup, SourceEarlyAccess, SourceNotifyMe:
		return true
	}
	return false
}

type EmailSubscription struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	Source      SubscriptionSource `json:"source"`
	ProductID   string             `json:"product_id,omitempty"`
	ProductName string             `json:"product_name,omitempty"`
	Drop        string             `json:"drop,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// User is a registered account, surfaced read-only through the admin API.
// Registration and login live in the external identity service.
type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	AuthProvider string    `json:"auth_provider"`
	OrderCount   int       `json:"order_count"`
	CreatedAt    time.Time `json:"created_at"`
}
