package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/AliakbarCal15/Internship-Task-39/internal/checkout"
	"github.com/AliakbarCal15/Internship-Task-39/internal/config"
	"github.com/AliakbarCal15/Internship-Task-39/internal/db"
	"github.com/AliakbarCal15/Internship-Task-39/internal/events"
	"github.com/AliakbarCal15/Internship-Task-39/internal/httpserver"
	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	loggingmw "github.com/AliakbarCal15/Internship-Task-39/internal/middleware/logging"
	"github.com/AliakbarCal15/Internship-Task-39/internal/orders"
	"github.com/AliakbarCal15/Internship-Task-39/internal/pricing"
	"github.com/AliakbarCal15/Internship-Task-39/internal/repo"
	"github.com/AliakbarCal15/Internship-Task-39/internal/service"
	"github.com/AliakbarCal15/Internship-Task-39/internal/session"
)

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	rootCtx, stopBackground := context.WithCancel(logging.IntoContext(context.Background(), logger))
	defer stopBackground()

	ctx, cancel := context.WithTimeout(rootCtx, 30*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	if cfg.Seed {
		if err := db.Seed(ctx, gdb); err != nil {
			cancel()
			log.Fatalf("db seed: %v", err)
		}
	}

	gormRepo := &repo.GormRepo{DB: gdb}
	catalog, ready, err := catalogBackend(ctx, cfg, gormRepo)
	cancel()
	if err != nil {
		log.Fatalf("catalog backend: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopics(cfg.KafkaBrokers[0], cfg.KafkaTopic); err != nil {
			logger.Warn("kafka_topic_setup_failed", "error", err)
		}
		producer, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		defer producer.Close()
		publisher = producer
	}

	engine := pricing.NewEngine(catalog, pricing.Config{
		DeliveryFee:       cfg.DeliveryFee,
		FreeDeliveryAbove: cfg.FreeDeliveryAbove,
	})
	materializer := checkout.NewOrderMaterializer(cfg.PlacementDelay, cfg.DeliveryETA, publisher, cfg.KafkaTopic)

	regOpts := []session.Option{session.WithEvents(publisher, cfg.KafkaTopic)}
	if cfg.DeliverySimulation {
		regOpts = append(regOpts, session.WithSimulator(orders.NewSimulator(cfg.DeliveryStepInterval)))
	}
	registry := session.NewRegistry(rootCtx, regOpts...)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler:  &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: catalog}},
		CartHandler:     &httpserver.CartHTTP{Pricer: engine, Coupons: gormRepo},
		WishlistHandler: &httpserver.WishlistHTTP{Catalog: catalog},
		CheckoutHandler: &httpserver.CheckoutHTTP{Svc: checkout.NewService(engine, materializer)},
		OrdersHandler:   &httpserver.OrdersHTTP{},
		Tokens:          session.NewTokens(cfg.SessionSecret, cfg.SessionTTL),
		Registry:        registry,
		Ready:           ready,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("storefront_listening", "addr", srv.Addr, "catalog_backend", cfg.CatalogBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	stopBackground()
	_ = db.Close(gdb)

	logger.Info("storefront_stopped")
}

// catalogBackend picks the product lookup and the readiness probe for it.
// The elasticsearch index is refreshed from the database on every start.
func catalogBackend(ctx context.Context, cfg config.Config, gormRepo *repo.GormRepo) (service.Catalog, func(context.Context) error, error) {
	dbReady := func(ctx context.Context) error { return db.Ping(ctx, gormRepo.DB) }

	switch cfg.CatalogBackend {
	case config.CatalogBackendSQL, "":
		return gormRepo, dbReady, nil

	case config.CatalogBackendElasticsearch:
		client, err := repo.NewESClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			return nil, nil, err
		}
		es := &repo.ESCatalog{ES: client, Index: cfg.ESIndex}
		if err := es.Ping(ctx); err != nil {
			return nil, nil, err
		}

		products, err := gormRepo.AllProducts(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load products for indexing: %w", err)
		}
		if err := es.IndexProducts(ctx, products); err != nil {
			return nil, nil, fmt.Errorf("index products: %w", err)
		}

		ready := func(ctx context.Context) error {
			if err := dbReady(ctx); err != nil {
				return err
			}
			return es.Ping(ctx)
		}
		return es, ready, nil
	}

	return nil, nil, fmt.Errorf("unknown CATALOG_BACKEND %q", cfg.CatalogBackend)
}
