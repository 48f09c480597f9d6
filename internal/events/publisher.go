package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

const (
	SubjectOrderCreated   = "order.created"
	SubjectOrderCancelled = "order.cancelled"
)

// OrderEvent is the payload published on order lifecycle subjects.
type OrderEvent struct {
	EventID    string             `json:"event_id"`
	OrderID    int64              `json:"order_id"`
	UserID     *int64             `json:"user_id,omitempty"`
	TotalPrice float64            `json:"total_price"`
	Status     domain.OrderStatus `json:"status"`
	Items      []domain.OrderItem `json:"items"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// Publisher emits order lifecycle events. Publishing is best-effort: a
// failed publish is logged, never surfaced to the caller, because the
// order is already committed.
type Publisher interface {
	PublishOrderCreated(order *domain.Order)
	PublishOrderCancelled(order *domain.Order)
	Close()
}

type natsPublisher struct {
	conn *nats.Conn
	log  *logrus.Logger
}

// NewNATSPublisher connects to the given NATS server. Callers should fall
// back to NewNoopPublisher when the connection fails so the HTTP surface
// keeps working without a broker.
func NewNATSPublisher(url string, logger *logrus.Logger) (Publisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warnf("Events: NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Infof("Events: NATS reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	logger.Infof("Events: Connected to NATS at %s", conn.ConnectedUrl())
	return &natsPublisher{conn: conn, log: logger}, nil
}

func (p *natsPublisher) PublishOrderCreated(order *domain.Order) {
	p.publish(SubjectOrderCreated, order)
}

func (p *natsPublisher) PublishOrderCancelled(order *domain.Order) {
	p.publish(SubjectOrderCancelled, order)
}

func (p *natsPublisher) publish(subject string, order *domain.Order) {
	event := OrderEvent{
		EventID:    uuid.NewString(),
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		Items:      order.Items,
		OccurredAt: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Errorf("Events: Failed to encode %s event for order %d: %v", subject, order.ID, err)
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Errorf("Events: Failed to publish %s for order %d: %v", subject, order.ID, err)
		return
	}
	p.log.Debugf("Events: Published %s for order %d", subject, order.ID)
}

func (p *natsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.log.Warnf("Events: Failed to drain NATS connection: %v", err)
		p.conn.Close()
	}
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event. Used when
// no NATS URL is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishOrderCreated(*domain.Order)   {}
func (noopPublisher) PublishOrderCancelled(*domain.Order) {}
func (noopPublisher) Close()                              {}
