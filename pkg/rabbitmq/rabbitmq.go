package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"skillswap/pkg/logger"

	amqp "github.com/streadway/amqp"
)

const (
	ExchangeName = "skillswap.events"
	QueueName    = "skillswap_activity"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     logger.Logger
	mu      sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// Event is the envelope written to the exchange.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// EncodeEvent wraps payload in an Event and marshals it.
func EncodeEvent(routingKey string, payload interface{}, at time.Time) ([]byte, error) {
	body, err := json.Marshal(Event{Type: routingKey, OccurredAt: at.UTC(), Data: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}
	return body, nil
}

// NewClient dials the broker, declares the topic exchange and binds the
// activity queue to every routing key.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("RabbitMQ client connected", map[string]interface{}{
		"exchange": ExchangeName,
		"queue":    QueueName,
	})

	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", ExchangeName, err)
	}

	if _, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare %s: %w", QueueName, err)
	}

	if err := ch.QueueBind(QueueName, "#", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s: %w", QueueName, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends payload to the events exchange under routingKey.
func (c *Client) Publish(routingKey string, payload interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	now := time.Now()
	body, err := EncodeEvent(routingKey, payload, now)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.channel.Publish(
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    now,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.log.Debug("event published", map[string]interface{}{"routing_key": routingKey})
	return nil
}

// ConsumeEvents starts a goroutine that feeds activity queue deliveries to
// handler. Failed deliveries are nacked without requeue.
func (c *Client) ConsumeEvents(handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	c.mu.Lock()
	msgs, err := c.channel.Consume(
		QueueName,
		"skillswap-activity", // consumer tag
		false,                // auto-ack
		false,                // exclusive
		false,                // no-local
		false,                // no-wait
		nil,
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				c.log.Warn("activity event rejected", map[string]interface{}{
					"delivery_tag": msg.DeliveryTag,
					"error":        err,
				})
				if nackErr := msg.Nack(false, false); nackErr != nil {
					c.log.Error("nack failed", map[string]interface{}{"error": nackErr})
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.log.Error("ack failed", map[string]interface{}{"error": ackErr})
			}
		}
	}()

	return nil
}

// ActivityLogger returns a handler that decodes each event and writes it to
// log. Undecodable bodies are reported as errors.
func ActivityLogger(log logger.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var evt Event
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		log.Info("activity", map[string]interface{}{
			"type":        evt.Type,
			"occurred_at": evt.OccurredAt,
			"data":        evt.Data,
		})
		return nil
	}
}
