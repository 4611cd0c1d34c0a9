package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrymomot/entitlekit/handler"
	"github.com/dmitrymomot/entitlekit/pkg/auth"
	"github.com/dmitrymomot/entitlekit/pkg/billing"
	"github.com/dmitrymomot/entitlekit/pkg/cache"
	"github.com/dmitrymomot/entitlekit/pkg/config"
	"github.com/dmitrymomot/entitlekit/pkg/email"
	"github.com/dmitrymomot/entitlekit/pkg/entitlement"
	"github.com/dmitrymomot/entitlekit/pkg/httpserver"
	"github.com/dmitrymomot/entitlekit/pkg/ledger"
	"github.com/dmitrymomot/entitlekit/pkg/logger"
	"github.com/dmitrymomot/entitlekit/pkg/mongo"
	"github.com/dmitrymomot/entitlekit/pkg/pg"
	"github.com/dmitrymomot/entitlekit/pkg/promo"
	"github.com/dmitrymomot/entitlekit/pkg/redis"
	"github.com/dmitrymomot/entitlekit/pkg/webhook"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"production"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"entitlekit"`

	LedgerDriver    string `env:"LEDGER_DRIVER" envDefault:"postgres"` // postgres, mongo, memory
	MongoDatabase   string `env:"MONGODB_DATABASE" envDefault:"entitlekit"`
	MongoCollection string `env:"MONGODB_COLLECTION" envDefault:"payments"`

	CacheDriver string `env:"CACHE_DRIVER" envDefault:"memory"` // memory, redis

	BillingProvider string `env:"BILLING_PROVIDER" envDefault:"stripe"` // stripe, paddle
	ProductName     string `env:"PRODUCT_NAME" envDefault:"Premium"`
	SupportURL      string `env:"SUPPORT_URL"`

	PromoTablePath string `env:"PROMO_TABLE_PATH"`

	ReceiptsEnabled bool `env:"RECEIPTS_ENABLED" envDefault:"false"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Missing configuration or storage is fatal at startup, not recoverable per
// request, so run wires everything before the listener starts.
func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	store, probes, err := newLedgerStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	promos, err := newPromoResolver(cfg, log)
	if err != nil {
		return err
	}

	entitlements, err := newEntitlementService(ctx, cfg, store, promos, log)
	if err != nil {
		return err
	}

	checkout, err := newCheckoutInitiator(cfg, promos, log)
	if err != nil {
		return err
	}

	ingestorOpts := []webhook.Option{webhook.WithLogger(log)}
	if cfg.ReceiptsEnabled {
		var emailCfg email.Config
		if err := config.Load(&emailCfg); err != nil {
			return err
		}
		sender, err := email.NewPostmarkSender(emailCfg)
		if err != nil {
			return err
		}
		ingestorOpts = append(ingestorOpts, webhook.WithReceipts(sender, cfg.ProductName, cfg.SupportURL))
	}
	ingestor := webhook.NewIngestor(store, entitlements, ingestorOpts...)

	var verifierCfg auth.GoogleConfig
	if err := config.Load(&verifierCfg); err != nil {
		return err
	}
	tokenCache := cache.NewTTLCache[auth.Identity]()
	defer func() { _ = tokenCache.Close() }()
	verifier := auth.NewCachingVerifier(auth.NewGoogleVerifier(verifierCfg), tokenCache, auth.DefaultVerifyTTL)

	var handlerCfg handler.Config
	if err := config.Load(&handlerCfg); err != nil {
		return err
	}
	router := handler.New(handlerCfg, handler.Deps{
		Verifier:     verifier,
		Entitlements: entitlements,
		Checkout:     checkout,
		Ingestor:     ingestor,
		Log:          log,
	})

	var srvCfg httpserver.Config
	if err := config.Load(&srvCfg); err != nil {
		return err
	}

	mux := withProbes(ctx, router, log, probes)

	srv := httpserver.NewFromConfig(srvCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.InfoContext(ctx, "server started", "addr", srvCfg.Addr, "ledger", cfg.LedgerDriver)
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.InfoContext(ctx, "server stopped")
		}),
	)
	return srv.Run(ctx, mux)
}

func newLogger(cfg appConfig) *slog.Logger {
	if strings.EqualFold(cfg.Environment, "development") {
		return logger.New(logger.WithDevelopment(cfg.ServiceName))
	}
	return logger.New(logger.WithProduction(cfg.ServiceName))
}

func newLedgerStore(ctx context.Context, cfg appConfig, log *slog.Logger) (ledger.Store, []func(context.Context) error, error) {
	switch strings.ToLower(cfg.LedgerDriver) {
	case "postgres":
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
			return nil, nil, err
		}
		return ledger.NewPostgresStore(pool), []func(context.Context) error{pg.Healthcheck(pool)}, nil

	case "mongo":
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return nil, nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, mongoCfg, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		store, err := ledger.NewMongoStore(ctx, db, cfg.MongoCollection)
		if err != nil {
			return nil, nil, err
		}
		return store, []func(context.Context) error{mongo.Healthcheck(db.Client())}, nil

	case "memory":
		// Volatile; every restart forgets all payments. Development only.
		log.WarnContext(ctx, "using in-memory ledger store")
		return ledger.NewMemoryStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown ledger driver: %s", cfg.LedgerDriver)
	}
}

func newPromoResolver(cfg appConfig, log *slog.Logger) (*promo.Resolver, error) {
	opts := []promo.ResolverOption{promo.WithLogger(log)}

	if cfg.PromoTablePath == "" {
		// No table configured means no promotions, which is a valid steady state.
		return promo.NewResolver(promo.NewInMemSource(), opts...), nil
	}
	return promo.NewResolver(promo.NewYAMLSource(cfg.PromoTablePath), opts...), nil
}

func newEntitlementService(ctx context.Context, cfg appConfig, store ledger.Store, promos *promo.Resolver, log *slog.Logger) (entitlement.Service, error) {
	opts := []entitlement.Option{entitlement.WithLogger(log)}

	if strings.EqualFold(cfg.CacheDriver, "redis") {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, entitlement.WithPaidSetCache(cache.NewRedisCache[[]string](client, "entitlement")))
	}

	return entitlement.NewService(store, promos, opts...), nil
}

func newCheckoutInitiator(cfg appConfig, promos *promo.Resolver, log *slog.Logger) (billing.Initiator, error) {
	var initCfg billing.InitiatorConfig
	if err := config.Load(&initCfg); err != nil {
		return nil, err
	}

	var provider billing.Provider
	switch strings.ToLower(cfg.BillingProvider) {
	case "stripe":
		var stripeCfg billing.StripeConfig
		if err := config.Load(&stripeCfg); err != nil {
			return nil, err
		}
		p, err := billing.NewStripeProvider(stripeCfg)
		if err != nil {
			return nil, err
		}
		provider = p

	case "paddle":
		var paddleCfg billing.PaddleConfig
		if err := config.Load(&paddleCfg); err != nil {
			return nil, err
		}
		p, err := billing.NewPaddleProvider(paddleCfg)
		if err != nil {
			return nil, err
		}
		provider = p

	default:
		return nil, fmt.Errorf("unknown billing provider: %s", cfg.BillingProvider)
	}

	return billing.NewInitiator(provider, initCfg,
		billing.WithPromoResolver(promos),
		billing.WithLogger(log),
	), nil
}

// withProbes mounts liveness and readiness endpoints next to the API.
func withProbes(ctx context.Context, router http.Handler, log *slog.Logger, probes []func(context.Context) error) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/healthz", httpserver.HealthCheckHandler(ctx, log))
	mux.Handle("/readyz", httpserver.HealthCheckHandler(ctx, log, probes...))
	mux.Handle("/", router)
	return mux
}
