// Package router groups module routes under the versioned API prefix.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/joefazee/visaguide/internal/deps"
)

// BasePath prefixes every versioned route.
const BasePath = "/api/v1"

// MountFunc attaches one module's routes to a group.
type MountFunc func(*gin.RouterGroup, *deps.Container)

type Mounter struct {
	container *deps.Container
}

func NewMounter(container *deps.Container) *Mounter {
	return &Mounter{container: container}
}

// Public serves /api/v1 to anonymous callers.
func (m *Mounter) Public(engine *gin.Engine) *RouteGroup {
	return m.at(engine, BasePath)
}

// Admin serves /api/v1/admin. Routes are open until WithAuth is called, so
// login is mounted on a separate Admin group.
func (m *Mounter) Admin(engine *gin.Engine) *RouteGroup {
	return m.at(engine, BasePath+"/admin")
}

func (m *Mounter) at(engine *gin.Engine, path string) *RouteGroup {
	return &RouteGroup{group: engine.Group(path), container: m.container}
}

type RouteGroup struct {
	group     *gin.RouterGroup
	container *deps.Container
}

func (rg *RouteGroup) Mount(mountFunc MountFunc) *RouteGroup {
	mountFunc(rg.group, rg.container)
	return rg
}

func (rg *RouteGroup) Group(path string) *RouteGroup {
	return &RouteGroup{group: rg.group.Group(path), container: rg.container}
}

// WithAuth guards every route mounted after it.
func (rg *RouteGroup) WithAuth(authMiddleware gin.HandlerFunc) *RouteGroup {
	rg.group.Use(authMiddleware)
	return rg
}
