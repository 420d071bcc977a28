package deps

import (
	"testing"

	"github.com/joefazee/visaguide/internal/cache"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/sanitizer"
	"github.com/stretchr/testify/assert"
)

type greeter interface{ Greet() string }

type english struct{}

func (english) Greet() string { return "hello" }

func TestContainer_ProvideAndResolve(t *testing.T) {
	c := NewContainer(nil, sanitizer.NewHTMLStripper(), logger.NewNullLogger(), &cache.MockCache{}, nil)

	c.Provide("greeter", english{})
	c.Provide("per_page", 20)

	assert.Equal(t, "hello", Resolve[greeter](c, "greeter").Greet())
	assert.Equal(t, 20, Resolve[int](c, "per_page"))

	n, ok := Lookup[int](c, "per_page")
	assert.True(t, ok)
	assert.Equal(t, 20, n)

	_, ok = Lookup[string](c, "per_page")
	assert.False(t, ok)
	_, ok = Lookup[int](c, "missing")
	assert.False(t, ok)
}

func TestContainer_ProvideReplaces(t *testing.T) {
	c := &Container{}
	c.Provide("limit", 1)
	c.Provide("limit", 2)
	assert.Equal(t, 2, Resolve[int](c, "limit"))
}

func TestResolve_PanicsOnMisconfiguredKey(t *testing.T) {
	c := &Container{}
	assert.PanicsWithValue(t, `deps: nothing provided for "greeter"`, func() {
		Resolve[greeter](c, "greeter")
	})

	c.Provide("greeter", 42)
	assert.Panics(t, func() { Resolve[greeter](c, "greeter") })
}
