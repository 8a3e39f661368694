package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"
)

// DefaultQueue receives every domain event.
const DefaultQueue = "pasar_events"

// Event is the envelope published for each domain event.
type Event struct {
	Name       string                 `json:"event"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  zerolog.Logger
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	queue := cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareQueue(ch, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info().Str("queue", queue).Msg("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   queue,
		logger:  logger,
	}, nil
}

func declareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
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
		return fmt.Errorf("errors while closing RabbitMQ client: %v", errs)
	}
	return nil
}

// NewEvent wraps payload in an Event stamped with the current time.
func NewEvent(name string, payload map[string]interface{}) Event {
	return Event{Name: name, OccurredAt: time.Now().UTC(), Payload: payload}
}

// PublishEvent publishes a persistent JSON event to the client's queue.
func (c *Client) PublishEvent(name string, payload map[string]interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(NewEvent(name, payload))
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         name,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", name, err)
	}

	c.logger.Debug().Str("event", name).Msg("event published")
	return nil
}

// ConsumeEvents starts a goroutine delivering queued events to handler.
// Deliveries are acked when handler returns nil. Undecodable messages are
// dropped; handler errors requeue the message.
func (c *Client) ConsumeEvents(handler func(Event) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
		c.logger.Info().Msg("event consumer stopped")
	}()

	return nil
}

// acknowledger is the subset of amqp.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(Event) error) {
	settle(c.logger, &msg, msg.Body, handler)
}

func settle(logger zerolog.Logger, ack acknowledger, body []byte, handler func(Event) error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Error().Err(err).Msg("dropping undecodable event")
		if nackErr := ack.Nack(false, false); nackErr != nil {
			logger.Error().Err(nackErr).Msg("failed to nack event")
		}
		return
	}

	if err := handler(event); err != nil {
		logger.Error().Err(err).Str("event", event.Name).Msg("failed to process event")
		if nackErr := ack.Nack(false, true); nackErr != nil {
			logger.Error().Err(nackErr).Msg("failed to nack event")
		}
		return
	}

	if ackErr := ack.Ack(false); ackErr != nil {
		logger.Error().Err(ackErr).Msg("failed to ack event")
	}
}

// AuditHandler returns a consumer handler that logs every event it receives.
func AuditHandler(logger zerolog.Logger) func(Event) error {
	return func(event Event) error {
		logger.Info().
			Str("event", event.Name).
			Time("occurred_at", event.OccurredAt).
			Interface("payload", event.Payload).
			Msg("audit event")
		return nil
	}
}
