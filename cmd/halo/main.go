package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"halochain/config"
	"halochain/core"
	"halochain/core/genesis"
	"halochain/core/state"
	"halochain/observability/logging"
	"halochain/storage"
)

const genesisPathEnv = "HALO_GENESIS"

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	genesisFlag := flag.String("genesis", "", "Path to a genesis YAML file (overrides HALO_GENESIS and config GenesisFile)")
	metricsAddr := flag.String("metrics", "", "Listen address for the Prometheus metrics endpoint (empty disables)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup("halo", resolveLogEnv(cfg), logging.Options{
		File:  cfg.LogFile,
		Level: parseLevel(cfg.LogLevel),
	})

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("open database", "backend", cfg.DBBackend, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	store := state.NewStore()
	height, err := store.LoadSnapshot(db)
	switch {
	case err == nil:
		logger.Info("state restored from snapshot", "height", height)
	case errors.Is(err, storage.ErrNotFound):
		genesisPath := resolveGenesisPath(*genesisFlag, cfg)
		genCfg := genesis.Default()
		if genesisPath != "" {
			if genCfg, err = genesis.LoadFile(genesisPath); err != nil {
				logger.Error("load genesis", "path", genesisPath, "err", err)
				os.Exit(1)
			}
		}
		if genCfg.Timestamp == 0 {
			genCfg.Timestamp = time.Now().Unix()
		}
		if err := genesis.Initialize(store, genCfg); err != nil {
			logger.Error("initialize genesis state", "err", err)
			os.Exit(1)
		}
		logger.Info("genesis state initialized", "network", cfg.NetworkName, "timestamp", genCfg.Timestamp)
	default:
		logger.Error("load snapshot", "err", err)
		os.Exit(1)
	}

	chain := core.NewBlockchain(store, db, logger)
	if err := core.VerifyAssetSupplies(chain.Store()); err != nil {
		logger.Error("supply audit failed on startup", "err", err)
		os.Exit(1)
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics endpoint listening", "addr", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics endpoint stopped", "err", err)
			}
		}()
	}

	logger.Info("node ready", "network", cfg.NetworkName)
	select {}
}

func openDatabase(cfg *config.Config) (storage.Database, error) {
	switch cfg.DBBackend {
	case "memory":
		return storage.NewMemDB(), nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	switch cfg.DBBackend {
	case "bolt":
		return storage.NewBoltDB(filepath.Join(cfg.DataDir, "chain.bolt"))
	default:
		return storage.NewLevelDB(filepath.Join(cfg.DataDir, "chaindata"))
	}
}

// resolveLogEnv lets HALO_ENV override the configured logging environment.
func resolveLogEnv(cfg *config.Config) string {
	if v := strings.TrimSpace(os.Getenv("HALO_ENV")); v != "" {
		return v
	}
	return cfg.LogEnv
}

func resolveGenesisPath(flagValue string, cfg *config.Config) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(genesisPathEnv)); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.GenesisFile)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
