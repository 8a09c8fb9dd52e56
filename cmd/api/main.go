package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	quotecache "loan-calculator/internal/adapter/cache"
	httpadp "loan-calculator/internal/adapter/http"
	"loan-calculator/internal/adapter/repository/mysql"
	"loan-calculator/internal/config"
	domain "loan-calculator/internal/domain/loan"
	"loan-calculator/internal/infrastructure/cache"
	"loan-calculator/internal/infrastructure/db"
	"loan-calculator/internal/usecase/loan"
	"loan-calculator/pkg/logger"
)

func main() {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	checks := map[string]httpadp.Check{}

	var products domain.ProductRepository
	if cfg.CatalogEnabled() {
		repo, gdb, codes, err := openCatalog(cfg)
		if err != nil {
			log.Fatal("product catalog unavailable", zap.Error(err))
		}
		products = repo
		checks["mysql"] = db.Ping(gdb)
		log.Info("product catalog enabled", zap.String("mysql_db", cfg.MySQLDB), zap.Strings("products", codes))
	}

	var rdb *redis.Client
	var quotes domain.QuoteCache
	if cfg.RedisEnabled() {
		rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatal("redis connect failed", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		quotes = quotecache.NewQuoteCache(rdb)
		checks["redis"] = cache.Ping(rdb)
		log.Info("quote cache and request replay enabled", zap.String("redis_addr", cfg.RedisAddr))
	}

	opts := cfg.LoanOptions()
	uc := loan.NewUsecase(products, quotes, log, opts)

	e := httpadp.NewRouter(httpadp.RouterDeps{
		Health:   httpadp.NewHandler(checks),
		Loans:    httpadp.NewLoanHandler(uc),
		Log:      log,
		Redis:    rdb,
		IdempTTL: cfg.IdempTTL(),
	})
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening",
			zap.String("addr", addr),
			zap.String("day_count", string(opts.DayCount)),
			zap.String("apr_convention", string(opts.APRConvention)),
			zap.Bool("legacy_error_parity", opts.LegacyErrorParity))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	stop, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	ctx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("bye")
}

// openCatalog connects MySQL, migrates loan_products, seeds the default
// product and returns the codes now in the catalog.
func openCatalog(cfg *config.Config) (*mysql.ProductRepository, *gorm.DB, []string, error) {
	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		return nil, nil, nil, err
	}
	repo := mysql.NewProductRepository(gdb)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repo.Migrate(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	if err := repo.Seed(ctx, domain.DefaultProduct()); err != nil {
		return nil, nil, nil, fmt.Errorf("seed: %w", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list: %w", err)
	}
	codes := make([]string, 0, len(all))
	for _, p := range all {
		codes = append(codes, p.Code)
	}
	return repo, gdb, codes, nil
}
