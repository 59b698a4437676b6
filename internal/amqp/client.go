// Package amqp publishes and consumes the messages that keep the local
// database and the household sheet in agreement.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Message types carried in the AMQP Type property.
const (
	TypeExpenseSync   = "expense.sync"
	TypeExpenseDelete = "expense.delete"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// Handlers dispatches consumed messages by type.
type Handlers struct {
	Sync   func(*ExpenseSyncMessage) error
	Delete func(*ExpenseDeleteMessage) error
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key matches the queue name on a direct exchange.
	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishExpenseSync asks the worker to mirror a record to the sheet.
func (c *Client) PublishExpenseSync(ctx context.Context, id, version int64) error {
	body, err := NewExpenseSyncMessage(id, version).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, TypeExpenseSync, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published expense sync message",
		"id", id, "version", version, "exchange", c.exchangeName, "queue", c.queueName)
	return nil
}

// PublishExpenseDelete asks the worker to remove a record's mirror row.
func (c *Client) PublishExpenseDelete(ctx context.Context, msg *ExpenseDeleteMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, TypeExpenseDelete, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published expense delete message",
		"id", msg.ID, "exchange", c.exchangeName, "queue", c.queueName)
	return nil
}

func (c *Client) publish(ctx context.Context, msgType string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		c.queueName,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Type:         msgType,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Consume processes messages until the context ends. Messages that fail to
// decode are rejected without requeue; handler failures requeue the message.
func (c *Client) Consume(ctx context.Context, handlers Handlers) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming sync messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			handler, err := bind(delivery, handlers)
			if err != nil {
				// Undecodable or unknown messages never succeed; reject
				// without requeue.
				slog.ErrorContext(ctx, "Dropping message", "error", err, "type", delivery.Type)
				delivery.Nack(false, false)
				continue
			}

			if err := handler(); err != nil {
				slog.ErrorContext(ctx, "Failed to handle message",
					"error", err, "type", delivery.Type)
				delivery.Nack(false, true) // requeue
				continue
			}
			delivery.Ack(false)
		}
	}
}

// bind decodes a delivery and pairs it with its handler.
func bind(delivery amqp091.Delivery, handlers Handlers) (func() error, error) {
	switch delivery.Type {
	case TypeExpenseSync:
		msg, err := ExpenseSyncMessageFromJSON(delivery.Body)
		if err != nil {
			return nil, fmt.Errorf("unmarshal sync message: %w", err)
		}
		if handlers.Sync == nil {
			return nil, fmt.Errorf("no sync handler configured")
		}
		return func() error { return handlers.Sync(msg) }, nil
	case TypeExpenseDelete:
		msg, err := ExpenseDeleteMessageFromJSON(delivery.Body)
		if err != nil {
			return nil, fmt.Errorf("unmarshal delete message: %w", err)
		}
		if handlers.Delete == nil {
			return nil, fmt.Errorf("no delete handler configured")
		}
		return func() error { return handlers.Delete(msg) }, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", delivery.Type)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
