// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ewhitmore/cardtable/internal/cache"
	"github.com/ewhitmore/cardtable/internal/catalog"
	"github.com/ewhitmore/cardtable/internal/config"
	"github.com/ewhitmore/cardtable/internal/engine"
	"github.com/ewhitmore/cardtable/internal/handlers"
	"github.com/ewhitmore/cardtable/internal/middleware"
	"github.com/ewhitmore/cardtable/internal/store"
)

const releaseVersion = "0.2.0"

func main() {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "cardtable",
		Short:         "Draw one random card from each suit and share a live set with others.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cfg.BindFlags(cmd)
	cmd.SetVersionTemplate("cardtable v{{.Version}}\n")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cobra.CheckErr(cmd.ExecuteContext(ctx))
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logrus.New()
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cards, err := catalog.Load(cfg.CardsFile)
	if err != nil {
		return err
	}
	logger.WithField("file", cfg.CardsFile).Info("card catalog loaded")

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	var sc *cache.SessionCache
	if cfg.RedisAddr != "" {
		sc, err = cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			return err
		}
		defer sc.Close()
		logger.WithField("addr", cfg.RedisAddr).Info("session cache connected")
	}

	eng := engine.New(cards, st, sc, logger)
	srv := handlers.NewServer(eng, logger, releaseVersion)

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port)),
		Handler:           middleware.LogMiddleware(logger)(srv.Router()),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       10 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("listening on http://%s/", httpServer.Addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}

	return nil
}
