// Package router registers the HTTP routes. Every business route sits
// behind JWT authentication; the handlers read the actor from the request
// context.
package router

import (
	"vega_social_server/internal/handler"
	"vega_social_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router registers route groups against the handler aggregate.
type Router struct {
	handlers *handler.Handlers
}

// NewRouter creates a Router.
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes registers every route group on the engine.
func (rt *Router) RegisterRoutes(engine *gin.Engine) {
	authed := engine.Group("/", middleware.JWTAuth())

	rt.RegisterFriendRoutes(authed)
	rt.RegisterPresenceRoutes(authed)
	rt.RegisterNotificationRoutes(authed)
	rt.RegisterActivityRoutes(authed)
	rt.RegisterWebSocketRoutes(authed)
}
