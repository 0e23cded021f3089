package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/ethfolio-backend/internal/adapter/cache"
	"github.com/simaogato/ethfolio-backend/internal/adapter/coingecko"
	grpcadapter "github.com/simaogato/ethfolio-backend/internal/adapter/grpc"
	ethfoliov1 "github.com/simaogato/ethfolio-backend/internal/adapter/grpc/ethfolio/v1"
	"github.com/simaogato/ethfolio-backend/internal/adapter/repository/memory"
	"github.com/simaogato/ethfolio-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/ethfolio-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/ethfolio-backend/internal/adapter/rest"
	"github.com/simaogato/ethfolio-backend/internal/adapter/rss"
	"github.com/simaogato/ethfolio-backend/internal/config"
	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/simaogato/ethfolio-backend/internal/scheduler"
	"github.com/simaogato/ethfolio-backend/internal/usecase/dashboard"
	"github.com/simaogato/ethfolio-backend/internal/usecase/ledger"
	"github.com/simaogato/ethfolio-backend/internal/usecase/market"
	"github.com/simaogato/ethfolio-backend/internal/usecase/news"
	"github.com/simaogato/ethfolio-backend/internal/usecase/notify"
	"github.com/simaogato/ethfolio-backend/internal/usecase/seeder"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ethfolio starting...")

	// 1. Load config
	cfgPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	loc, err := cfg.TimeLocation()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Open the store
	transactionRepo, quoteRepo, closer, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[FATAL] open %s store: %v", cfg.Database.Driver, err)
	}
	defer closer.Close()
	log.Printf("[INFO] using %s store", cfg.Database.Driver)

	if cfg.Ledger.SeedFile != "" {
		entries, err := seeder.LoadFile(cfg.Ledger.SeedFile)
		if err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
		created, err := seeder.NewLedgerSeeder(transactionRepo).Seed(ctx, entries)
		if err != nil {
			log.Fatalf("[FATAL] seed ledger: %v", err)
		}
		log.Printf("[INFO] seeded %d of %d transactions from %s", created, len(entries), cfg.Ledger.SeedFile)
	}

	// 3. Initialize Services (Use Cases)
	hub := notify.NewHub()

	priceClient := coingecko.NewClient(coingecko.Config{
		BaseURL:    cfg.Price.BaseURL,
		CoinID:     cfg.Price.CoinID,
		VsCurrency: cfg.Price.VsCurrency,
		MinGap:     cfg.Price.MinGap,
	})
	marketService := market.NewMarketService(priceClient, quoteRepo, hub)

	ledgerService := ledger.NewLedgerService(transactionRepo, marketService, hub)
	ledgerService.RejectOverSell = cfg.Ledger.RejectOverSell

	dashboardService := dashboard.NewDashboardService(transactionRepo, marketService)
	dashboardService.Location = loc

	feed := rss.NewFeed(cfg.News.FeedURL)
	newsService := news.NewNewsService(feed, cache.NewMemory(64), news.Options{
		Keywords:   cfg.News.Keywords,
		MaxItems:   cfg.News.MaxItems,
		CacheTTL:   cfg.News.CacheTTL,
		RetryDelay: cfg.News.RetryDelay,
	})

	// 4. Scheduler
	sched := scheduler.NewScheduler(ctx, marketService, newsService)
	if err := sched.RegisterAll(cfg.Schedule.PriceCron, cfg.Schedule.NewsCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Schedule.RunOnStart {
		log.Println("[INFO] RUN_ON_START enabled, refreshing price and news now")
		go sched.RunNow()
	}

	// 5. Start gRPC Server
	grpcServer := grpclib.NewServer(grpcadapter.ServerOptions(cfg.Server.APIToken)...)
	grpcAdapter := grpcadapter.NewServer(ledgerService, marketService, newsService, dashboardService)
	ethfoliov1.RegisterPortfolioServiceServer(grpcServer, grpcAdapter)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Fatalf("[FATAL] listen on %s: %v", cfg.Server.GRPCAddr, err)
	}
	go func() {
		log.Printf("[INFO] gRPC server listening on %s", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("[FATAL] serve gRPC: %v", err)
		}
	}()

	// 6. Start HTTP Server
	handler := rest.NewHandler(ledgerService, marketService, newsService, feed, dashboardService, hub, cfg.Server.APIToken)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           rest.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] serve HTTP: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(cancel, grpcServer, httpServer)
}

// openStore selects the repositories for the configured driver
func openStore(ctx context.Context, cfg *config.Config) (domain.TransactionRepository, domain.QuoteRepository, io.Closer, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		// Give a freshly started Postgres container a moment to accept connections
		time.Sleep(2 * time.Second)

		db, err := postgres.NewDB(cfg.PostgresConnStr())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return postgres.NewTransactionRepository(db), postgres.NewQuoteRepository(db), db, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return sqlite.NewTransactionRepository(db), sqlite.NewQuoteRepository(db), db, nil

	default:
		log.Println("[WARN] memory store selected, data is lost on exit")
		return memory.NewTransactionRepository(), memory.NewQuoteRepository(), io.NopCloser(nil), nil
	}
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(cancel context.CancelFunc, grpcServer *grpclib.Server, httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("[INFO] received signal: %v, shutting down gracefully...", sig)

	// Cancelling first ends websocket streams so Shutdown does not wait on them
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] HTTP shutdown: %v", err)
	}
	log.Println("[INFO] HTTP server stopped")

	grpcServer.GracefulStop()
	log.Println("[INFO] gRPC server stopped")
}
