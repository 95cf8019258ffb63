package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// ScreenRepository keeps per-session screen state alive between requests.
// Idle screens expire after the configured TTL; onEvict runs for expired and deleted screens.
type ScreenRepository[T any] struct {
	cache *cache.Cache
}

func NewScreenRepository[T any](ttl time.Duration, onEvict func(key string, screen T)) *ScreenRepository[T] {
	c := cache.New(ttl, ttl/2+time.Second)
	if onEvict != nil {
		c.OnEvicted(func(key string, value interface{}) {
			onEvict(key, value.(T))
		})
	}
	return &ScreenRepository[T]{cache: c}
}

// GetOrCreate returns the screen for key, building it with create when absent.
// Every hit refreshes the idle timeout.
func (r *ScreenRepository[T]) GetOrCreate(key string, create func() (T, error)) (T, error) {
	if x, found := r.cache.Get(key); found {
		screen := x.(T)
		r.cache.SetDefault(key, screen)
		return screen, nil
	}

	screen, err := create()
	if err != nil {
		var zero T
		return zero, err
	}
	// Another request may have raced us here; first one wins.
	if err := r.cache.Add(key, screen, cache.DefaultExpiration); err != nil {
		if x, found := r.cache.Get(key); found {
			return x.(T), nil
		}
		r.cache.SetDefault(key, screen)
	}
	return screen, nil
}

func (r *ScreenRepository[T]) Get(key string) (T, bool) {
	if x, found := r.cache.Get(key); found {
		return x.(T), true
	}
	var zero T
	return zero, false
}

func (r *ScreenRepository[T]) Delete(key string) {
	r.cache.Delete(key)
}

func (r *ScreenRepository[T]) Count() int {
	return r.cache.ItemCount()
}
