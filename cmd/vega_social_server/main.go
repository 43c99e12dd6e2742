package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vega_social_server/internal/config"
	dao "vega_social_server/internal/dao/mysql"
	myredis "vega_social_server/internal/dao/redis"
	"vega_social_server/internal/handler"
	"vega_social_server/internal/https_server"
	"vega_social_server/internal/infrastructure/logger"
	"vega_social_server/internal/service"
	"vega_social_server/pkg/util/jwt"
	"vega_social_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	conf := config.GetConfig()

	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("logger initialized")

	dao.Init()
	zap.L().Info("database initialized")

	myredis.Init()
	zap.L().Info("redis initialized")

	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry)
	snowflake.Init()

	if err := handler.InitTrans("en"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}

	service.InitServices(dao.Repos)
	zap.L().Info("service layer initialized",
		zap.String("eventMode", conf.KafkaConfig.EventMode))

	engine := https_server.Init(handler.NewHandlers(service.Svc))

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown failed", zap.Error(err))
	}

	service.Svc.Close()
	zap.L().Info("server stopped")
}
