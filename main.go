package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chatrelay/internal/auth"
	"chatrelay/internal/config"
	"chatrelay/internal/database/db_client"
	"chatrelay/internal/http/http_server"
	"chatrelay/internal/services/chatlog"
	"chatrelay/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Credential verification
	var verifier auth.Verifier = auth.Insecure{}
	if cfg.JwtSecret != "" {
		verifier = auth.NewJWTVerifier(cfg.JwtSecret)
	} else {
		Log.Warn("JWT_SECRET not set, trusting declared identities")
	}

	// 4. Message store (append-only sink for room chat)
	chatLog := chatlog.NewNopChatLog()
	if cfg.ChatLogEnabled {
		pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort,
			cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
		if err != nil {
			Log.Fatal("pg-open", zap.Error(err))
		}
		defer pgDb.Close()
		chatLog = chatlog.NewChatLogService(pgDb)
	}

	// 5. Shared chat state: room directory, connection registry, moderation
	hub := ws.NewHub()
	registry := ws.NewRegistry()
	moderator := ws.NewModerator(cfg.AdminIdentity)

	// 6. WS server
	wsSrv := ws.NewWsServer(hub, registry, moderator, verifier, chatLog)

	// 7. HTTP + WS server
	httpServer := http_server.NewHttpServer(cfg.HttpServerPort, wsSrv)
	go func() {
		<-ctx.Done()
		if err := httpServer.Dispose(); err != nil {
			Log.Error("Failed to shut HTTP server down", zap.Error(err))
		}
	}()
	if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
