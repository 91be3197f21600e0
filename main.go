package main

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"social-feed/internal/auth"
	"social-feed/internal/config"
	"social-feed/internal/csvstore"
	"social-feed/internal/server"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store := csvstore.New(cfg.DataDir)
	if err := store.Bootstrap(); err != nil {
		logger.Fatal("bootstrap data files", zap.Error(err))
	}

	srv := server.New(logger, auth.New(cfg.JWTSecret), store, cfg.AllowedOrigin)

	addr := net.JoinHostPort(cfg.ServerHost, cfg.ServerPort)
	logger.Info("server starting", zap.String("addr", addr), zap.String("data_dir", cfg.DataDir))
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
