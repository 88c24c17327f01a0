package domain

import "time"

// WaitlistEntry is one captured purchase intent for the next drop.
// Position is assigned in join order; AccessCode gates the drop checkout.
type WaitlistEntry struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	ProductID   int       `json:"product_id"`
	ProductName string    `json:"product_name"`
	Variant     string    `json:"variant"`
	Size        string    `json:"size"`
	Position    int       `json:"position"`
	AccessCode  string    `json:"access_code"`
	Notified    bool      `json:"notified"`
	Purchased   bool      `json:"purchased"`
	CreatedAt   time.Time `json:"created_at"`
}
