package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aafab/recadastro/internal/audit"
	"github.com/aafab/recadastro/internal/auth"
	"github.com/aafab/recadastro/internal/base"
	"github.com/aafab/recadastro/internal/config"
	"github.com/aafab/recadastro/internal/db"
	internalhttp "github.com/aafab/recadastro/internal/http"
	"github.com/aafab/recadastro/internal/metrics"
	"github.com/aafab/recadastro/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	adminHash := cfg.AdminPasswordHash
	if adminHash == "" {
		// Fallback de desenvolvimento: deriva o hash da senha em claro no boot.
		log.Warn().Msg("ADMIN_PASSWORD_HASH ausente; derivando hash de ADMIN_PASSWORD (não use em produção)")
		adminHash, err = auth.Hash(cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("admin hash: %w", err)
		}
	}

	m := metrics.New()
	auditService := audit.NewService(pool)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	authService := service.NewAuthService(redisClient, jwtManager, cfg.JWTRefreshTTL, adminHash, auditService, m)

	if cfg.BaseSeedFile != "" {
		if err := seedBase(ctx, pool, cfg.BaseSeedFile, m); err != nil {
			return fmt.Errorf("seed base: %w", err)
		}
	}

	handler, err := internalhttp.NewRouter(cfg, pool, redisClient, authService, m)
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seedBase importa os CPFs do arquivo informado; entradas já presentes são ignoradas.
func seedBase(ctx context.Context, pool *pgxpool.Pool, path string, m *metrics.Metrics) error {
	raws, err := base.ReadSeedFile(path)
	if err != nil {
		return err
	}

	baseService := base.NewService(base.NewRepository(pool))
	result, err := baseService.BulkImport(ctx, raws)
	if err != nil {
		return err
	}

	m.CPFsImportados.Add(float64(result.Adicionados))
	log.Info().Int("adicionados", result.Adicionados).Int("ignorados", result.Ignorados).
		Str("arquivo", path).Msg("base autorizada semeada")
	return nil
}
