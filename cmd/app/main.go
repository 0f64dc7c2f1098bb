package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prasetyowira/shortlink/api"
	"github.com/prasetyowira/shortlink/config"
	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/domain/shortener"
	"github.com/prasetyowira/shortlink/infrastructure/cache"
	"github.com/prasetyowira/shortlink/infrastructure/db"
	"github.com/prasetyowira/shortlink/infrastructure/logger"
	"github.com/prasetyowira/shortlink/infrastructure/metrics"
	"github.com/prasetyowira/shortlink/infrastructure/qrcode"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a dotenv file (default: ./.env when present)")
	deleteAlias := flag.String("delete", "", "delete the given alias and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *deleteAlias); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, deleteAlias string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info(ctx, constant.MsgApplicationStarting, logger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataEnvironment: cfg.Env,
			constant.DataAddress:     cfg.HTTPServer.Address,
		},
	})

	store, err := db.Open(ctx, cfg.StoragePath, cfg.DBMaxOpenConns, log)
	if err != nil {
		log.Error(ctx, constant.MsgFailedToInitDB, logger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeAppDBInit,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
		})
		return err
	}
	defer store.Close()

	log.Info(ctx, "Storage ready", logger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataDialect:      store.DialectName(),
			constant.DataMaxOpenConns: cfg.DBMaxOpenConns,
		},
	})

	m := metrics.New()

	var aliasCache shortener.Cache
	if cfg.CacheSize > 0 {
		lru := cache.NewLRU(cfg.CacheSize, cfg.CacheTTL())
		m.TrackCacheSize(lru.Size)
		aliasCache = lru
	}
	service := shortener.NewService(db.NewRepository(store), shortener.NewGenerator(cfg.AliasLength), aliasCache, log)

	if deleteAlias != "" {
		return deleteCommand(ctx, service, deleteAlias, cfg.CacheTTL(), log)
	}

	handler := api.NewHandler(service, qrcode.NewGenerator(cfg.BaseURL), store, m, log)
	router := api.NewRouter(handler, m, api.Options{
		User:           cfg.HTTPServer.User,
		Password:       cfg.HTTPServer.Password,
		Timeout:        cfg.HTTPServer.Timeout(),
		MaxConcurrency: cfg.HTTPServer.MaxConcurrency,
	}, log)
	router.SetupRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPServer.Address,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout(),
		IdleTimeout:       cfg.HTTPServer.IdleTimeout(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, constant.MsgServerStarting, logger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Data: map[string]interface{}{
				constant.DataAddress: cfg.HTTPServer.Address,
				constant.DataTimeout: cfg.HTTPServer.Timeout().String(),
				constant.DataLimit:   cfg.HTTPServer.MaxConcurrency,
			},
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(gctx, constant.MsgServerFailed, logger.LoggerInfo{
				ContextFunction: constant.CtxMain,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeAppServer,
					Message: err.Error(),
					Type:    constant.ErrTypeApp,
				},
			})
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info(context.Background(), constant.MsgServerShuttingDown, logger.LoggerInfo{
			ContextFunction: constant.CtxMain,
		})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, constant.MsgServerFailed, logger.LoggerInfo{
				ContextFunction: constant.CtxMain,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeAppServerShutdown,
					Message: err.Error(),
					Type:    constant.ErrTypeApp,
				},
			})
			return err
		}
		return nil
	})

	err = g.Wait()

	log.Info(context.Background(), constant.MsgServerStopped, logger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})

	return err
}

// deleteCommand removes a single alias and reports the outcome on stdout.
// Running servers keep answering from their caches for at most cacheTTL.
func deleteCommand(ctx context.Context, service *shortener.Service, alias string, cacheTTL time.Duration, log *logger.Logger) error {
	if err := service.Delete(ctx, alias); err != nil {
		log.Error(ctx, "Failed to delete alias", logger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeAppDelete,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
			Data: map[string]interface{}{
				constant.DataAlias: alias,
			},
		})
		return fmt.Errorf("delete %q: %w", alias, err)
	}

	fmt.Printf("deleted %s (cached copies expire within %s)\n", alias, cacheTTL)
	return nil
}
