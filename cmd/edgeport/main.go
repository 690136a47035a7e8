// File path: cmd/edgeport/main.go
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/edgeport/edgeport/internal/api"
	"github.com/edgeport/edgeport/internal/common"
	"github.com/edgeport/edgeport/internal/config"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("edgeport: .env file not loaded", "error", err)
	} else {
		logger.Info("edgeport: environment loaded from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("edgeport: config load failed", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.Addr, "listen address")
	workers := flag.Int("workers", cfg.Workers, "concurrent conversions per batch")
	cacheSize := flag.Int("cache-size", cfg.CacheSize, "result cache capacity (0 disables)")
	overrides := flag.String("overrides", "", "path to a YAML overrides file for version pins and webhook providers")
	flag.Parse()

	cfg.Addr = *addr
	cfg.Workers = *workers
	cfg.CacheSize = *cacheSize
	if trimmed := strings.TrimSpace(*overrides); trimmed != "" {
		if err := cfg.ApplyOverridesFile(trimmed); err != nil {
			logger.Error("edgeport: overrides load failed", "path", trimmed, "error", err)
			fmt.Println("overrides error:", err)
			os.Exit(1)
		}
		logger.Info("edgeport: overrides applied", "path", trimmed)
	}

	logger.Info("edgeport: startup initiated", "addr", cfg.Addr, "workers", cfg.Workers)

	server, err := api.NewServer(cfg)
	if err != nil {
		logger.Error("edgeport: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("edgeport: server listening", "addr", cfg.Addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", cfg.Addr)
	reachable := cfg.Addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("edgeport: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		logger.Error("edgeport: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}
