package confirm

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/zeebo/errs"
)

const (
	// DefaultExchange is the topic exchange payment events are sent to.
	DefaultExchange = "mojapay.events"

	routingKeyPrefix = "payment."
)

var _ EventSink = &AMQPEvents{}

// Publisher is the part of *amqp.Channel used to publish events.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPEvents publishes payment events to a RabbitMQ topic exchange.
type AMQPEvents struct {
	publisher Publisher
	exchange  string
	conn      *amqp.Connection
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(amqpURL, exchange string) (_ *AMQPEvents, err error) {
	cleanURL, err := SanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cleanURL)
	if err != nil {
		return nil, errs.New("unable to connect to %s: %v", RedactURL(cleanURL), err)
	}
	defer func() {
		if err != nil {
			err = errs.Combine(err, conn.Close())
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		return nil, errs.Wrap(err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, errs.Wrap(err)
	}

	events := NewAMQPEvents(ch, exchange)
	events.conn = conn
	return events, nil
}

func NewAMQPEvents(publisher Publisher, exchange string) *AMQPEvents {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPEvents{publisher: publisher, exchange: exchange}
}

// RoutingKey returns the routing key of an event, e.g. "payment.bulk.completed".
func RoutingKey(t EventType) string {
	return routingKeyPrefix + string(t)
}

func (a *AMQPEvents) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return errs.Wrap(err)
	}
	return errs.Wrap(a.publisher.PublishWithContext(ctx, a.exchange, RoutingKey(evt.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    evt.Time,
		Body:         body,
	}))
}

func (a *AMQPEvents) Close() error {
	if a.conn == nil {
		return nil
	}
	return errs.Wrap(a.conn.Close())
}

// SanitizeAMQPURL trims quotes and whitespace and checks the scheme.
func SanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), `"'`)
	if !strings.HasSuffix(clean, "/") {
		clean += "/"
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", errs.Wrap(err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errs.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// RedactURL hides the password of a URL for logging.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
