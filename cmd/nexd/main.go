package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nexledger/config"
	"nexledger/core"
	"nexledger/crypto"
	"nexledger/observability/logging"
	"nexledger/rpc"
	"nexledger/storage"
)

const ownerPassEnv = "NEX_OWNER_PASS"

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("NEX_ENV"))
	logger := logging.Setup("nexd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	ownerKey, err := crypto.EnsureKeystore(cfg.OwnerKeystorePath, os.Getenv(ownerPassEnv))
	if err != nil {
		logger.Error("Failed to load owner keystore", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "ledger"))
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	node, err := core.NewNode(db, ownerKey)
	if err != nil {
		logger.Error("Failed to construct node", slog.Any("error", err))
		os.Exit(1)
	}

	reward, err := cfg.RevealerRewardWei()
	if err != nil {
		logger.Error("Invalid revealer reward", slog.Any("error", err))
		os.Exit(1)
	}
	node.SetRevealerReward(reward)

	alloc, err := cfg.GenesisAlloc()
	if err != nil {
		logger.Error("Invalid genesis allocation", slog.Any("error", err))
		os.Exit(1)
	}
	if err := node.ApplyGenesis(alloc); err != nil {
		logger.Error("Failed to apply genesis allocation", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("ledger ready",
		slog.String("network", cfg.NetworkName),
		slog.String("owner", node.Owner().String()),
	)

	server := rpc.NewServer(node, logger)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
