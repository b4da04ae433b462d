package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"atlassian-cloud-mcp-server/internal/application"
	"atlassian-cloud-mcp-server/internal/domain"
	"atlassian-cloud-mcp-server/internal/infrastructure"
	"atlassian-cloud-mcp-server/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	config, err := domain.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level: config.Log.Level,
		File:  config.Log.File,
	})
	slog.SetDefault(log)

	log.Info("configuration loaded", "path", *configPath)

	authManager := domain.NewAuthenticationManagerFromConfig(config)

	// Create API clients and handlers for each configured product
	var handlers []domain.ToolHandler

	if config.Tools.Jira != nil {
		httpClient, err := authManager.GetAuthenticatedClient("jira")
		if err != nil {
			log.Error("failed to create authenticated client for Jira", "error", err)
			os.Exit(1)
		}
		jiraClient := infrastructure.NewJiraClient(config.Tools.Jira.BaseURL, httpClient)
		handlers = append(handlers, application.NewJiraHandler(jiraClient))
		log.Info("Jira handler registered", "base_url", config.Tools.Jira.BaseURL)
	}

	if config.Tools.Confluence != nil {
		httpClient, err := authManager.GetAuthenticatedClient("confluence")
		if err != nil {
			log.Error("failed to create authenticated client for Confluence", "error", err)
			os.Exit(1)
		}
		confluenceClient := infrastructure.NewConfluenceClient(config.Tools.Confluence.BaseURL, httpClient)
		handlers = append(handlers, application.NewConfluenceHandler(confluenceClient))
		log.Info("Confluence handler registered", "base_url", config.Tools.Confluence.BaseURL)
	}

	if len(handlers) == 0 {
		log.Error("no products configured, at least one Atlassian product must be configured")
		os.Exit(1)
	}

	router := application.NewRequestRouter(handlers...)
	log.Info("request router initialized", "handlers", len(handlers))

	var transport domain.Transport
	switch config.Transport.Type {
	case "stdio":
		transport = domain.NewStdioTransport(log)
	case "http":
		transport = domain.NewHTTPTransport(config.Transport.HTTP.Host, config.Transport.HTTP.Port, log)
	default:
		log.Error("invalid transport type", "type", config.Transport.Type)
		os.Exit(1)
	}

	server := application.NewServer(transport, router, config, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	case err := <-errChan:
		log.Error("server error", "error", err)
		cancel()
		if err := server.Close(); err != nil {
			log.Error("error closing server", "error", err)
		}
		os.Exit(1)
	}

	if err := server.Close(); err != nil {
		log.Error("error during server shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server shutdown complete")
}
