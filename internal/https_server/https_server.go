// Package https_server builds the gin engine: middlewares, CORS and route
// registration.
package https_server

import (
	"vega_social_server/internal/handler"
	"vega_social_server/internal/infrastructure/logger"
	"vega_social_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init returns a configured gin engine. gin.New keeps the default logger
// and recovery out so the zap-backed ones are the only ones installed.
func Init(handlers *handler.Handlers) *gin.Engine {
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
