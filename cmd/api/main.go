package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/care4u/backend/internal/config"
	"github.com/zhouzirui/care4u/backend/internal/handler"
	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
	"github.com/zhouzirui/care4u/backend/internal/service/ai"
	"github.com/zhouzirui/care4u/backend/internal/service/chat"
	"github.com/zhouzirui/care4u/backend/internal/service/triage"
	"github.com/zhouzirui/care4u/backend/internal/service/urgency"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	catalog := symptom.NewMemoryStore(symptom.Seed())
	engine := triage.NewEngine()

	var chatModel model.ChatModel
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to create chat model: %v", err)
			chatModel = nil
		}
	} else {
		log.Println("Ark credentials not configured, advisor replies will use the fallback text")
	}

	urgencySvc, err := urgency.NewService(ctx, chatModel, urgency.Config{Enabled: cfg.AI.UrgencyLLMEnabled})
	if err != nil {
		log.Printf("warning: failed to initialize urgency classifier: %v", err)
		urgencySvc, _ = urgency.NewService(ctx, nil, urgency.Config{})
	}
	if urgencySvc.Enabled() {
		log.Println("Urgency classifier service enabled")
	} else if cfg.AI.UrgencyLLMEnabled {
		log.Println("Urgency classifier requested but chat model unavailable, falling back to heuristics")
	}

	// A nil Responder interface makes every turn end with the fallback text.
	var responder chat.Responder
	if chatModel != nil {
		aiService, err := ai.NewServiceWithModel(ctx, chatModel, urgencySvc)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
		} else {
			responder = aiService
			log.Println("AI service initialized successfully")
		}
	}

	chatService := chat.NewService(catalog, responder, chat.Options{
		DeliveredDelay:   cfg.Chat.DeliveredDelay,
		ComposingDelay:   cfg.Chat.ComposingDelay,
		ResponderTimeout: cfg.Chat.ResponderTimeout,
	})
	defer chatService.Close()

	router := handler.NewRouter(catalog, engine, chatService)

	startServer(ctx, cfg.Server, router, chatService.Close)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, onShutdown func()) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Tearing sessions down ends open event streams so Shutdown can finish.
	srv.RegisterOnShutdown(onShutdown)

	log.Printf("Care4U backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
