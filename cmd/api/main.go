package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coinhunter/gameserver/internal/api"
	"github.com/coinhunter/gameserver/internal/game/duel"
	"github.com/coinhunter/gameserver/internal/infra/logging"
	"github.com/coinhunter/gameserver/internal/infra/pgutils"
	"github.com/coinhunter/gameserver/internal/services/battle"
	"github.com/coinhunter/gameserver/internal/services/killfeed"
	"github.com/coinhunter/gameserver/internal/services/players"
	"github.com/coinhunter/gameserver/internal/services/wallet"
	"github.com/coinhunter/gameserver/internal/signer"
	"github.com/coinhunter/gameserver/pkg/envconf"
	"github.com/coinhunter/gameserver/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel, "api")

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add("db", func(context.Context) error {
		return db.Close()
	})

	claimSigner, err := signer.New(cfg.SignerKey, cfg.VaultAddress)
	if err != nil {
		return fmt.Errorf("init signer: %w", err)
	}

	slog.Info("claim signer ready", "signer", claimSigner.Address(), "vault", claimSigner.Vault())

	// --- Services ---
	feedSvc := killfeed.New(db)
	playerSvc := players.New(db)
	battleSvc := battle.New(db, duel.NewShuffleDealer(nil), feedSvc)
	walletSvc := wallet.New(db, claimSigner, cfg.SellRate)

	// --- Kill feed retention ---
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	feedSvc.StartSweeper(sweepCtx, cfg.FeedSweepInterval)

	shutdownqueue.Add("feed-sweeper", func(context.Context) error {
		stopSweep()
		return nil
	})

	// --- HTTP server ---
	handler := api.NewHandler(playerSvc, battleSvc, walletSvc, feedSvc)
	srv := api.NewServer(cfg.Port, handler)

	shutdownqueue.Add("http-server", func(c context.Context) error {
		slog.Info("shutting down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
