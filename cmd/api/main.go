package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"promptsmith/internal/config"
	"promptsmith/internal/llm"
	"promptsmith/internal/pipeline"
	"promptsmith/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	cli, err := newClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatal(err)
	}
	defer cli.Close()
	cli = llm.WithLogging(cli, nil)

	api := newAPIServer(pipeline.NewRunner(cli))
	srv := server.New(cfg.Port, withCORS(buildMux(api)))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Println("shutting down")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}

func newClient(ctx context.Context, cfg config.LLMConfig) (llm.Client, error) {
	if cfg.Provider == "fake" {
		log.Println("using offline fake LLM client")
		return llm.NewFakeClient(), nil
	}
	return llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
}
