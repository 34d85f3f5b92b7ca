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

	"github.com/joho/godotenv"

	"github.com/sojo06/smartcart/internal/config"
	"github.com/sojo06/smartcart/internal/handler"
	"github.com/sojo06/smartcart/internal/model/ruleset"
	cartservice "github.com/sojo06/smartcart/internal/service/cart"
	dialogueservice "github.com/sojo06/smartcart/internal/service/dialogue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	rulesetStore := ruleset.NewMemoryStore(ruleset.Seed())

	dialogueSvc := dialogueservice.NewService(rulesetStore, dialogueservice.Config{
		FallbackSeed:  cfg.Assistant.FallbackSeed,
		ListenTimeout: cfg.Assistant.ListenTimeout,
	})

	cartSvc := cartservice.NewService(cartservice.Config{
		TaxRateBasisPoints: cfg.Cart.TaxRateBasisPoints,
		DeliveryFeeCents:   cfg.Cart.DeliveryFeeCents,
		JoinCodeLength:     cfg.Cart.JoinCodeLength,
	})

	router := handler.NewRouter(rulesetStore, dialogueSvc, cartSvc, cfg.Assistant.ReplyDelay)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("SmartCart backend listening on %s", addr)
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
