package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yogaputrap/createsync-platform/config"
	project_repo "github.com/yogaputrap/createsync-platform/internal/repo/project"
	"github.com/yogaputrap/createsync-platform/internal/routers"
	chat_service "github.com/yogaputrap/createsync-platform/internal/use-case/chat-case"
	"github.com/yogaputrap/createsync-platform/internal/websocket"
	"github.com/yogaputrap/createsync-platform/internal/worker"
	"github.com/yogaputrap/createsync-platform/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appState, err := state.InitAppState(ctx, stop)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application state")
	}
	defer appState.Close()

	wsHub := websocket.NewHub()
	log.Info().Msg("Websocket hub initialized")

	authFunc := websocket.JWTWebSocketAuth(appState.JwtSecret.Public, appState.Redis)

	wsHandler := websocket.NewWebSocketHandler(
		wsHub,
		authFunc,
		chat_service.NewChatService(appState),
		project_repo.NewProjectRepo(appState),
		appState.JwtSecret.Public,
	)
	if config.Conf.WS.MaxConnections > 0 {
		wsHandler.MaxConnections = int64(config.Conf.WS.MaxConnections)
	}

	log.Info().Msg("Websocket handler initialized")

	r := routers.NewRouter(appState, wsHub, wsHandler)

	workerNum := config.Conf.WORKER.Num
	if workerNum <= 0 {
		workerNum = 5
	}
	workerPool := worker.NewWorkerPool(appState.Redis, workerNum, wsHub)
	go workerPool.Start(ctx)

	server := &http.Server{
		Addr:         config.Conf.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Msgf("Starting server on http://localhost%s", config.Conf.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("ListenAndServe failed: %v", err))
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown initiated...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Graceful shutdown failed: %v\n", err)
	} else {
		fmt.Println("Server exited gracefully.")
	}
	wsHub.Close()
	workerPool.Stop()
}
