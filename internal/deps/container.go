package deps

import (
	"fmt"

	"github.com/joefazee/visaguide/internal/cache"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/metrics"
	"github.com/joefazee/visaguide/internal/sanitizer"
	"github.com/joefazee/visaguide/internal/security"
)

// Container carries the shared infrastructure plus whatever each module
// provides under its own keys. Modules resolve each other's values by key
// so app/admin never imports app/countries.
type Container struct {
	TokenMaker security.Maker
	Sanitizer  sanitizer.HTMLStripperer
	Logger     logger.Logger
	Cache      cache.Cache[string]
	Metrics    *metrics.Metrics

	provided map[string]interface{}
}

func NewContainer(tokenMaker security.Maker,
	sanitizer sanitizer.HTMLStripperer,
	logger logger.Logger,
	cache cache.Cache[string],
	m *metrics.Metrics,
) *Container {
	return &Container{
		TokenMaker: tokenMaker,
		Sanitizer:  sanitizer,
		Logger:     logger,
		Cache:      cache,
		Metrics:    m,
	}
}

// Provide registers v under key, replacing any earlier value.
func (c *Container) Provide(key string, v interface{}) {
	if c.provided == nil {
		c.provided = make(map[string]interface{})
	}
	c.provided[key] = v
}

// Lookup returns the value under key when it exists and is a T.
func Lookup[T any](c *Container, key string) (T, bool) {
	v, ok := c.provided[key].(T)
	return v, ok
}

// Resolve is Lookup for wiring code: a missing or mistyped key is a
// programming error and panics at mount time.
func Resolve[T any](c *Container, key string) T {
	raw, exists := c.provided[key]
	if !exists {
		panic(fmt.Sprintf("deps: nothing provided for %q", key))
	}
	v, ok := raw.(T)
	if !ok {
		var want T
		panic(fmt.Sprintf("deps: %q holds %T, want %T", key, raw, &want))
	}
	return v
}
