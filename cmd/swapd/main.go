package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"swapvault/config"
	"swapvault/core/events"
	nativecommon "swapvault/native/common"
	"swapvault/native/registry"
	"swapvault/native/swap"
	"swapvault/native/vault"
	"swapvault/observability/logging"
	"swapvault/rpc"
	"swapvault/state"
	"swapvault/storage"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logger := logging.Setup("swapd", cfg.Environment, cfg.LogFile)

	if err := run(cfg, logger); err != nil {
		logger.Error("swapd exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "db"))
	if err != nil {
		return err
	}
	defer db.Close()

	mgr := state.NewManager(db)

	reg, err := registry.Load(db)
	if err != nil {
		return err
	}

	vaultAddr, err := cfg.Vault()
	if err != nil {
		return err
	}
	custody, err := vault.New(mgr, vaultAddr)
	if err != nil {
		return err
	}

	fee, err := cfg.FeeAmount()
	if err != nil {
		return err
	}
	markUpLimit, err := cfg.MarkUpLimitAmount()
	if err != nil {
		return err
	}
	params, err := swap.NewParamStore(fee, markUpLimit)
	if err != nil {
		return err
	}

	treasury, err := cfg.Treasury()
	if err != nil {
		return err
	}
	collector, err := cfg.Collector()
	if err != nil {
		return err
	}

	pauses := nativecommon.NewPauseSet()

	engine := swap.NewEngine()
	engine.SetState(mgr)
	engine.SetRegistry(reg)
	engine.SetLedger(mgr)
	engine.SetBank(mgr)
	engine.SetVault(custody)
	engine.SetParams(params)
	engine.SetFeeTreasury(treasury)
	engine.SetCollector(collector)
	engine.SetPauses(pauses)
	engine.SetEmitter(events.Func(func(evt events.Event) {
		logger.Info("swap event", "type", evt.EventType())
	}))

	server := rpc.NewServer(engine, mgr, reg, params, pauses, logger)
	httpServer := &http.Server{
		Addr:              cfg.RPCAddress,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("rpc server listening", "address", cfg.RPCAddress)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
