// File path: cmd/logicforge/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/logicforge/logicforge/internal/api"
	"github.com/logicforge/logicforge/internal/common"
	"github.com/logicforge/logicforge/internal/llm"
	"github.com/logicforge/logicforge/internal/store"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("logicforge: .env file not loaded", "error", err)
	} else {
		logger.Info("logicforge: environment loaded from .env")
	}

	addr := flag.String("addr", defaultAddr(), "listen address")
	dbPath := flag.String("db", defaultDBPath(), "path to the SQLite database")
	flag.Parse()

	logger.Info("logicforge: startup initiated", "addr", *addr, "db", *dbPath)

	cfg, err := store.LoadConfig()
	if err != nil {
		logger.Error("logicforge: store config load failed", "error", err)
		fmt.Println("store config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*dbPath); trimmed != "" {
		cfg.Path = trimmed
	}
	st, err := store.OpenWithConfig(cfg)
	if err != nil {
		logger.Error("logicforge: store initialization failed", "error", err)
		fmt.Println("store error:", err)
		os.Exit(1)
	}
	defer st.Close()

	provider := llm.NewProviderFromEnv()
	logger.Info("logicforge: llm provider ready", "provider", provider.Name())

	srv, err := api.NewServer(st, provider)
	if err != nil {
		logger.Error("logicforge: server initialization failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	// Catalog embeddings are best effort; keyword search covers the gap when
	// the provider has no embedding support.
	seedCtx, seedCancel := context.WithTimeout(ctx, 2*time.Minute)
	if err := srv.SearchEngine().SeedEmbeddings(seedCtx); err != nil {
		logger.Warn("logicforge: catalog embedding seed skipped", "error", err)
	}
	seedCancel()

	logger.Info("logicforge: listening", "addr", *addr)
	fmt.Printf("LogicForge API listening on %s\n", *addr)
	if err := http.ListenAndServe(*addr, srv); err != nil {
		logger.Error("logicforge: server stopped", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}
}

func defaultAddr() string {
	if env := strings.TrimSpace(os.Getenv("LOGICFORGE_ADDR")); env != "" {
		return env
	}
	return ":8080"
}

func defaultDBPath() string {
	if env := strings.TrimSpace(os.Getenv("LOGICFORGE_DB")); env != "" {
		return env
	}
	return "logicforge.db"
}
