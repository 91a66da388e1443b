package mail

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/pkg/config"
)

// Consumer drains the mail queue and hands each delivery to a handler.
// Failed deliveries are nack-requeued so a transient SMTP outage does not
// drop welcome e-mails.
type Consumer struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	logger *zap.Logger
}

// NewConsumer dials the broker and declares the mail queue.
func NewConsumer(cfg config.BrokerConfig, logger *zap.Logger) (*Consumer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(cfg.MailQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Consumer{conn: conn, ch: ch, queue: cfg.MailQueue, logger: logger}, nil
}

// Run blocks consuming deliveries until the context is canceled.
func (c *Consumer) Run(ctx context.Context, handler func([]byte) error) error {
	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			if err := handler(d.Body); err != nil {
				c.logger.Warn("mail delivery failed, requeueing", zap.Error(err))
				if nackErr := d.Nack(false, true); nackErr != nil {
					c.logger.Error("failed to nack delivery", zap.Error(nackErr))
				}
				continue
			}
			if ackErr := d.Ack(false); ackErr != nil {
				c.logger.Error("failed to ack delivery", zap.Error(ackErr))
			}
		}
	}
}

// Close releases the channel and connection.
func (c *Consumer) Close() error {
	if c.ch != nil {
		if err := c.ch.Close(); err != nil {
			return err
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
