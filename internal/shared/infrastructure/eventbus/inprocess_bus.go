package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Handler receives an envelope delivered by the in-process bus.
type Handler func(ctx context.Context, routingKey string, payload []byte) error

type subscription struct {
	pattern string
	name    string
	handler Handler
}

// InProcessBus delivers envelopes synchronously to subscribers whose topic
// pattern matches the routing key. Patterns follow AMQP topic rules: `*`
// matches one word and `#` matches zero or more.
type InProcessBus struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInProcessBus creates an empty bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{logger: logger}
}

// Subscribe registers handler for routing keys matching pattern.
func (b *InProcessBus) Subscribe(name, pattern string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{pattern: pattern, name: name, handler: handler})
}

// Publish runs every matching handler. All handlers run even when one fails;
// their errors are joined so the outbox retries the message.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	var errs []error
	delivered := 0
	for _, sub := range subs {
		if !TopicMatches(sub.pattern, routingKey) {
			continue
		}
		delivered++
		if err := sub.handler(ctx, routingKey, payload); err != nil {
			b.logger.Error("event handler failed",
				"subscriber", sub.name,
				"routing_key", routingKey,
				"error", err,
			)
			errs = append(errs, err)
		}
	}

	b.logger.Debug("event dispatched", "routing_key", routingKey, "subscribers", delivered)
	return errors.Join(errs...)
}

func (b *InProcessBus) Close() error {
	return nil
}

// TopicMatches reports whether routingKey matches an AMQP topic pattern.
func TopicMatches(pattern, routingKey string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(routingKey, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchWords(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || key[0] != pattern[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
