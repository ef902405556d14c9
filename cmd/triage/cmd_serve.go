// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/TriageFOSS/pkg/ux"
	"github.com/AleutianAI/TriageFOSS/services/llm"
	"github.com/AleutianAI/TriageFOSS/services/triage"
	"github.com/AleutianAI/TriageFOSS/services/triage/agent"
	"github.com/AleutianAI/TriageFOSS/services/triage/tools"
)

// runServe starts the HTTP server and blocks until interrupted.
func runServe(cmd *cobra.Command, args []string) error {
	client, err := llm.NewOpenAIClient(llm.OpenAIOptions{
		BaseURL: cfg.Model.BaseURL,
		Model:   cfg.Model.Name,
	})
	if err != nil {
		return fmt.Errorf("creating model client: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := tools.NewStore(cfg.Data.Dir)
	registry := buildRegistry(store)

	if cfg.Data.Watch {
		watcher, err := tools.NewWatcher(store)
		if err != nil {
			return fmt.Errorf("creating data watcher: %w", err)
		}
		go watcher.Start(ctx)
	}

	loop := agent.NewLoop(agent.NewLLMOracle(client), registry)
	handlers := triage.NewHandlers(loop, registry, cfg.Agent.MaxSteps)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	v1 := router.Group("/v1")
	triage.RegisterRoutes(v1, handlers)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Triage server listening", slog.String("addr", cfg.Server.Addr))
		errCh <- server.ListenAndServe()
	}()

	ux.Success(fmt.Sprintf("Serving on %s (model %s)", cfg.Server.Addr, client.Model()))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
