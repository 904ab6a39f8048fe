package amqp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"ledger/internal/core"
	"ledger/internal/log"
)

// DefaultPublishTimeout bounds a single publish when Options leaves it unset.
const DefaultPublishTimeout = 5 * time.Second

// Options describes where append notifications go. The queue is bound to
// the direct exchange with its own name as routing key.
type Options struct {
	URL            string
	Exchange       string
	Queue          string
	PublishTimeout time.Duration
}

func (o Options) validate() error {
	switch {
	case o.URL == "":
		return errors.New("AMQP URL is required")
	case o.Exchange == "":
		return errors.New("exchange name is required")
	case o.Queue == "":
		return errors.New("queue name is required")
	}
	return nil
}

// Client publishes ledger events on a single channel.
type Client struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	opts    Options
}

// NewClient dials the broker and declares the durable exchange and queue
// notifications are routed through.
func NewClient(opts Options) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}

	conn, err := amqp091.Dial(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	c := &Client{conn: conn, opts: opts}

	if c.channel, err = conn.Channel(); err != nil {
		c.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := c.declareRoute(); err != nil {
		c.Close()
		return nil, fmt.Errorf("declare route: %w", err)
	}
	return c, nil
}

func (c *Client) declareRoute() error {
	// durable, not auto-deleted, not internal, no-wait off
	if err := c.channel.ExchangeDeclare(c.opts.Exchange, amqp091.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange %q: %w", c.opts.Exchange, err)
	}
	// durable, kept when unused, shared, no-wait off
	if _, err := c.channel.QueueDeclare(c.opts.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue %q: %w", c.opts.Queue, err)
	}
	if err := c.channel.QueueBind(c.opts.Queue, c.opts.Queue, c.opts.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind %q to %q: %w", c.opts.Queue, c.opts.Exchange, err)
	}
	return nil
}

// PublishTransactionAdded publishes a persistent notification for tx.
func (c *Client) PublishTransactionAdded(ctx context.Context, tx core.Transaction) error {
	body, err := NewTransactionAddedMessage(tx).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.PublishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.opts.Exchange, c.opts.Queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	log.FromContext(ctx).WithComponent(log.ComponentAMQP).DebugContext(ctx, "Published transaction added message",
		log.FieldOperation, log.OpPublish,
		log.FieldDate, tx.Date.String(),
		log.FieldCategory, tx.Category.String(),
		log.FieldExchange, c.opts.Exchange,
		log.FieldQueue, c.opts.Queue)
	return nil
}

// Close shuts the channel and then the connection; both may be nil on a
// partially built client.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}
