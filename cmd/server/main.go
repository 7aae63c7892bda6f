package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	apinotes "github.com/eugenemartinez/drop-note-api/internal/api/notes"
	"github.com/eugenemartinez/drop-note-api/internal/config"
	"github.com/eugenemartinez/drop-note-api/internal/repository"
	notesuc "github.com/eugenemartinez/drop-note-api/internal/usecase/notes"
	"github.com/eugenemartinez/drop-note-api/migrations"
	"github.com/eugenemartinez/drop-note-api/pkg/database"
	"github.com/eugenemartinez/drop-note-api/pkg/httpx"
	"github.com/eugenemartinez/drop-note-api/pkg/logger/slogx"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse cfg: %v", err)
	}

	if err := slogx.InitGlobal(os.Stdout, cfg.App.LogLevel, cfg.App.Pretty); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	dbOpts := database.NewOptions(
		cfg.Database.Address(),
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		database.WithLogger(slogx.Default()),
	)

	if err := migrations.Up(ctx, dbOpts.DSN()); err != nil {
		return fmt.Errorf("run migrations: %v", err)
	}

	pool, err := database.NewPGX(ctx, dbOpts)
	if err != nil {
		return fmt.Errorf("init pgx pool: %v", err)
	}
	defer pool.Close()

	db := database.NewDatabase(pool)
	repo := repository.New(db)

	uc, err := notesuc.New(notesuc.NewOptions(repo, db))
	if err != nil {
		return fmt.Errorf("init notes usecase: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		slogx.GinMiddleware(),
		apinotes.CORSMiddleware(cfg.HTTP.AllowedOrigins),
	)

	apinotes.New(uc, db).RegisterRoutes(router)

	srv, err := httpx.New(httpx.NewOptions(
		cfg.HTTP.Addr,
		router,
		httpx.WithLogger(slogx.Default()),
		httpx.WithShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	))
	if err != nil {
		return fmt.Errorf("init http server: %v", err)
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return srv.Run(ctx) })

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait app stop: %v", err)
	}

	return nil
}
