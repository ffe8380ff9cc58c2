package event

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"farmconnect/pkg/domain/service"
	"farmconnect/pkg/infrastructure/storage"
)

const publishTimeout = 5 * time.Second

var _ service.EventDispatcher = &AMQPPublisher{}

// AMQPPublisher publishes every event as JSON to a fanout exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// DialAMQP connects with backoff and declares the exchange.
func DialAMQP(ctx context.Context, url, exchange string, retryTimeout time.Duration) (*AMQPPublisher, error) {
	var conn *amqp.Connection
	err := storage.Retry(ctx, retryTimeout, "amqp", func() error {
		var err error
		conn, err = amqp.Dial(url)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp")
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open amqp channel")
	}
	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare exchange %s", exchange)
	}

	log.WithField("exchange", exchange).Info("publishing events to amqp")
	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

func (p *AMQPPublisher) Dispatch(event service.Event) error {
	body, err := NewEnvelope(event.Type(), event).Encode()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, p.exchange, event.Type(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         event.Type(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	return errors.Wrapf(err, "publish %s", event.Type())
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		log.WithError(err).Warn("close amqp channel")
	}
	return errors.Wrap(p.conn.Close(), "close amqp connection")
}
