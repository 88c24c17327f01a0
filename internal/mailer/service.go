package mailer

import (
	"context"
	"fmt"

	"github.com/steadybroo69-afk/gym/internal/domain"
)

// Service renders and sends the storefront's transactional messages.
type Service struct {
	sender Sender
	from   string
}

func NewService(sender Sender, from string) *Service {
	return &Service{sender: sender, from: from}
}

func (s *Service) SendOrderConfirmation(ctx context.Context, order domain.Order) error {
	if order.Shipping.Email == "" {
		return fmt.Errorf("order %s has no customer email", order.OrderNumber)
	}
	return s.sender.Send(ctx, OrderConfirmation(s.from, order))
}

func (s *Service) SendWaitlistConfirmation(ctx context.Context, entry domain.WaitlistEntry) error {
	return s.sender.Send(ctx, WaitlistConfirmation(s.from, entry))
}
