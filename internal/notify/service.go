// Package notify turns committed order events into outbound messages for the
// affected party. Delivery here is a log line standing in for an email/push
// gateway; the in-database notifications written by the checkout and lifecycle
// transactions remain the source of truth.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	kafkax "github.com/farm2door/farm2door/internal/kafka"
	"github.com/farm2door/farm2door/internal/market"
	"github.com/farm2door/farm2door/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleEvent is the consumer handler for both order topics. Events are
// deduped by event ID so a redelivered message never mails twice.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := redisx.SetOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	switch env.EventType {
	case market.EventOrderPlaced:
		p, err := kafkax.UnwrapPayload[market.OrderPlacedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.deliver(p.SellerID, fmt.Sprintf("You received a new order worth $%s (%d items).",
			market.Dollars(p.TotalCents), len(p.Items)))
		s.deliver(p.BuyerID, fmt.Sprintf("Your order was placed. Total charged: $%s including $%s delivery.",
			market.Dollars(p.TotalCents), market.Dollars(p.DeliveryCents)))
	case market.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[market.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		recipient := p.SellerID
		if p.Actor == market.RoleSeller {
			recipient = p.BuyerID
		}
		s.deliver(recipient, fmt.Sprintf("Order status changed from %s to %s.", p.From, p.To))
	}
	return nil
}

func (s *Service) deliver(userID, body string) {
	log.Printf("notify user=%s: %s", userID, body)
}
