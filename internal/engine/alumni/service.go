// Package alumni implements the alumni directory, student profiles and the
// recommendation pipeline that turns them into networking plans.
package alumni

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anatolykoptev/go_alumni/internal/engine"
)

// EventsChannel is the Redis pub/sub channel activity events are published on.
const EventsChannel = "alumni.events"

// Publisher is the subset of *redis.Client used for event fan-out.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Service is the transport-agnostic entry point for every alumni operation.
type Service struct {
	store     Store
	llm       engine.Completer
	cache     *engine.Cache
	pub       Publisher
	persister *Persister
	locks     keyedMutex
	now       func() time.Time
	maxTokens int
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables caching of career-coach results.
func WithCache(c *engine.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithRedis publishes tracked events on EventsChannel. A nil client disables publishing.
func WithRedis(rdb *redis.Client) Option {
	return func(s *Service) {
		if rdb != nil {
			s.pub = rdb
		}
	}
}

// WithPublisher sets a custom event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.pub = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaxTokens sets the completion budget for plan generation.
func WithMaxTokens(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// NewService wires a Service over store and the completion client.
func NewService(store Store, llm engine.Completer, opts ...Option) *Service {
	s := &Service{
		store:     store,
		llm:       llm,
		persister: NewPersister(store),
		now:       time.Now,
		maxTokens: 4000,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// keyedMutex serializes work per key (user id).
type keyedMutex struct {
	m sync.Map // key → *sync.Mutex
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	v, _ := k.m.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
