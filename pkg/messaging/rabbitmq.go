package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitConfig holds connection settings for the broker.
type RabbitConfig struct {
	URL               string
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	HeartbeatTimeout  time.Duration
}

// DefaultRabbitConfig returns connection defaults.
func DefaultRabbitConfig(url string) RabbitConfig {
	return RabbitConfig{
		URL:               url,
		ReconnectDelay:    time.Second,
		MaxReconnectDelay: time.Minute,
		HeartbeatTimeout:  10 * time.Second,
	}
}

// RabbitClient is a reconnecting RabbitMQ client. Consumers keep running
// across broker restarts; messages whose handler errors are nacked, and
// queues declared with a DLQ shed poison messages there.
type RabbitClient struct {
	config RabbitConfig
	logger *slog.Logger

	mu              sync.RWMutex
	conn            *amqp.Connection
	ch              *amqp.Channel
	notifyConnClose chan *amqp.Error
	isReconnecting  bool
	isClosed        bool
}

func NewRabbitClient(config RabbitConfig, logger *slog.Logger) (*RabbitClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.ReconnectDelay == 0 {
		config.ReconnectDelay = time.Second
	}
	if config.MaxReconnectDelay == 0 {
		config.MaxReconnectDelay = time.Minute
	}
	if config.HeartbeatTimeout == 0 {
		config.HeartbeatTimeout = 10 * time.Second
	}

	c := &RabbitClient{config: config, logger: logger}
	if err := c.connect(); err != nil {
		return nil, err
	}
	go c.handleReconnect()
	return c, nil
}

func (c *RabbitClient) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("connecting to RabbitMQ", "url", maskURL(c.config.URL))

	conn, err := amqp.DialConfig(c.config.URL, amqp.Config{Heartbeat: c.config.HeartbeatTimeout})
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	c.conn = conn
	c.ch = ch
	c.notifyConnClose = make(chan *amqp.Error)
	c.conn.NotifyClose(c.notifyConnClose)
	c.isReconnecting = false
	return nil
}

func (c *RabbitClient) handleReconnect() {
	c.mu.RLock()
	if c.isClosed {
		c.mu.RUnlock()
		return
	}
	notifyClose := c.notifyConnClose
	c.mu.RUnlock()

	if err := <-notifyClose; err != nil {
		c.logger.Warn("RabbitMQ connection closed, reconnecting", "error", err)
		c.reconnect()
	}
}

func (c *RabbitClient) reconnect() {
	c.mu.Lock()
	c.isReconnecting = true
	c.mu.Unlock()

	backoff := c.config.ReconnectDelay
	for {
		c.mu.RLock()
		closed := c.isClosed
		c.mu.RUnlock()
		if closed {
			return
		}

		if err := c.connect(); err == nil {
			c.logger.Info("RabbitMQ reconnected")
			go c.handleReconnect()
			return
		}

		c.logger.Warn("reconnect failed, backing off", "wait", backoff)
		time.Sleep(backoff)
		backoff *= 2
		if backoff > c.config.MaxReconnectDelay {
			backoff = c.config.MaxReconnectDelay
		}
	}
}

// DeclareQueueWithDLQ declares a durable queue whose rejected messages are
// routed to <name>.dlq instead of being redelivered forever.
func (c *RabbitClient) DeclareQueueWithDLQ(name string) (amqp.Queue, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ch == nil {
		return amqp.Queue{}, fmt.Errorf("channel is not initialized")
	}

	dlqName := name + ".dlq"
	if _, err := c.ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare DLQ: %w", err)
	}

	return c.ch.QueueDeclare(name, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqName,
	})
}

func (c *RabbitClient) Publish(ctx context.Context, queueName string, body []byte) error {
	c.mu.RLock()
	if c.isReconnecting || c.ch == nil {
		c.mu.RUnlock()
		return fmt.Errorf("connection is not available")
	}
	ch := c.ch
	c.mu.RUnlock()

	return ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// Consume reads queueName until ctx is cancelled. Handler errors nack the
// message without requeue; with a DLQ-declared queue the broker dead-letters
// it there.
func (c *RabbitClient) Consume(ctx context.Context, queueName string, handler func(body []byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		c.mu.RLock()
		if c.isReconnecting || c.ch == nil {
			c.mu.RUnlock()
			time.Sleep(time.Second)
			continue
		}
		ch := c.ch
		c.mu.RUnlock()

		msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
		if err != nil {
			c.logger.Warn("failed to register consumer", "queue", queueName, "error", err)
			time.Sleep(2 * time.Second)
			continue
		}

		closed := false
		for !closed {
			select {
			case <-ctx.Done():
				return nil
			case d, ok := <-msgs:
				if !ok {
					c.logger.Warn("consumer channel closed, waiting for reconnection", "queue", queueName)
					time.Sleep(c.config.ReconnectDelay)
					closed = true
					continue
				}
				if err := handler(d.Body); err != nil {
					c.logger.Error("message handling failed", "queue", queueName, "error", err)
					d.Nack(false, false)
				} else {
					d.Ack(false)
				}
			}
		}
	}
}

func (c *RabbitClient) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed() && !c.isReconnecting
}

func (c *RabbitClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.isClosed = true
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

func maskURL(url string) string {
	if parts := strings.Split(url, "@"); len(parts) > 1 {
		prefixParts := strings.Split(parts[0], "://")
		if len(prefixParts) == 2 {
			return prefixParts[0] + "://***:***@" + parts[1]
		}
	}
	return url
}
