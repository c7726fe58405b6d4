// Package control wires the relay's components together and manages their
// lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/relay/internal/core/config"
	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/engine"
	"github.com/vietddude/relay/internal/health"
	redisclient "github.com/vietddude/relay/internal/infra/redis"
	"github.com/vietddude/relay/internal/infra/rpc"
	"github.com/vietddude/relay/internal/infra/rpc/endpoint"
	"github.com/vietddude/relay/internal/infra/storage"
	"github.com/vietddude/relay/internal/infra/storage/memory"
	"github.com/vietddude/relay/internal/infra/storage/postgres"
	"github.com/vietddude/relay/internal/notify"
	"github.com/vietddude/relay/internal/wallets"
)

// Collaborators are the external systems the relay core delegates to. Any nil
// field falls back to a local stand-in: paper execution, no market data, and
// log-only notifications.
type Collaborators struct {
	Executor  engine.TradeExecutor
	Tokens    engine.TokenInfoProvider
	Messenger notify.Messenger
}

// Relay is the main application struct that manages component lifecycle.
type Relay struct {
	cfg          *config.AppConfig
	client       *rpc.Client
	registry     *wallets.Registry
	risk         *engine.RiskState
	engine       *engine.Engine
	healthMon    *health.Monitor
	healthServer *health.Server
	walletRepo   storage.WalletRepository
	tradeRepo    storage.TradeRecordRepository
	db           *postgres.DB
	redisClient  *redisclient.Client
	log          *slog.Logger
}

// NewRelay creates a Relay with all dependencies initialized, in order:
// storage, registry, RPC client, dedupe, risk state, engine, health.
func NewRelay(cfg *config.AppConfig, collab Collaborators, log *slog.Logger) (*Relay, error) {
	if log == nil {
		log = slog.Default()
	}

	// 1. Storage
	var (
		walletRepo storage.WalletRepository
		tradeRepo  storage.TradeRecordRepository
		db         *postgres.DB
	)
	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate("migrations"); err != nil {
			return nil, err
		}
		walletRepo = postgres.NewWalletRepo(db)
		tradeRepo = postgres.NewTradeRepo(db)
		log.Info("Using PostgreSQL storage")
	} else {
		store := memory.NewMemoryStorage()
		walletRepo = memory.NewWalletRepo(store)
		tradeRepo = memory.NewTradeRepo(store)
		log.Info("Using Memory storage")
	}

	// 2. Registry, rebuilt from persisted wallets
	registry := wallets.NewRegistry()
	stored, err := walletRepo.GetAll(context.Background())
	if err != nil {
		log.Warn("Failed to load monitored wallets", "error", err)
	}
	for _, w := range stored {
		if _, err := registry.Add(w.UserID, w.Address, w.Label, domain.DefaultSettings()); err != nil {
			log.Warn("Skipping stored wallet", "address", w.Address, "error", err)
		}
	}
	log.Info("Loaded monitored wallets", "count", registry.Count())

	// 3. RPC client
	chains := make(map[domain.Chain][]endpoint.Config, len(cfg.Chains))
	for _, chainCfg := range cfg.Chains {
		eps := make([]endpoint.Config, 0, len(chainCfg.Endpoints))
		for _, ep := range chainCfg.Endpoints {
			eps = append(eps, endpoint.Config{
				Name:         ep.Name,
				URL:          ep.URL,
				Priority:     ep.Priority,
				MaxPerSecond: ep.MaxPerSecond,
				Transport:    endpoint.Transport(ep.Transport),
			})
		}
		chains[chainCfg.Chain] = eps
	}
	client, err := rpc.NewClient(chains, log, rpc.Options{
		ProbeInterval: cfg.Engine.ProbeInterval,
		MaxAttempts:   cfg.Engine.RPCMaxAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init rpc client: %w", err)
	}

	// 4. Dedupe
	var (
		redisClient *redisclient.Client
		deduper     engine.Deduper
	)
	if cfg.Redis.URL != "" {
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, using in-process dedupe", "error", err)
			deduper = redisclient.NewMemoryDeduper()
		} else {
			deduper = redisclient.NewDeduper(redisClient)
		}
	} else {
		deduper = redisclient.NewMemoryDeduper()
	}

	// 5. Risk state and collaborator fallbacks
	risk := engine.NewRiskState(cfg.Engine.MaxConcurrentTrades)

	executor := collab.Executor
	if executor == nil {
		executor = NewPaperExecutor(log)
		log.Info("Using paper trading executor")
	}
	tokens := collab.Tokens
	if tokens == nil {
		tokens = noTokenData{}
	}
	notifier := notify.New(collab.Messenger, log)

	// 6. Engine
	eng, err := engine.New(engine.Config{
		Registry: registry,
		Risk:     risk,
		Executor: executor,
		Tokens:   tokens,
		Notifier: notifier,
		Deduper:  deduper,
		Records:  recordSink{repo: tradeRepo},
		Log:      log,
	})
	if err != nil {
		return nil, err
	}

	// 7. Health
	healthMon := health.NewMonitor(client, eng, risk)
	healthServer := health.NewServer(healthMon, cfg.Server.Port)

	return &Relay{
		cfg:          cfg,
		client:       client,
		registry:     registry,
		risk:         risk,
		engine:       eng,
		healthMon:    healthMon,
		healthServer: healthServer,
		walletRepo:   walletRepo,
		tradeRepo:    tradeRepo,
		db:           db,
		redisClient:  redisClient,
		log:          log,
	}, nil
}

// Start starts the relay's background components.
func (r *Relay) Start(ctx context.Context) error {
	go func() {
		if err := r.healthServer.Start(); err != nil {
			r.log.Error("Health server failed", "error", err)
		}
	}()

	go r.client.Run(ctx)

	r.log.Info("Relay started", "port", r.cfg.Server.Port, "chains", len(r.cfg.Chains))
	return nil
}

// Stop stops the relay.
func (r *Relay) Stop(ctx context.Context) error {
	r.log.Info("Stopping Relay...")

	r.client.Close()

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			r.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			r.log.Warn("Failed to close database", "error", err)
		}
	}

	return r.healthServer.Stop(ctx)
}

// Process feeds one detected trade event into the decision engine. This is
// the wallet-monitor collaborator's entry point.
func (r *Relay) Process(ctx context.Context, event domain.TradeEvent) *engine.Outcome {
	return r.engine.Process(ctx, event)
}

// FollowWallet registers a wallet for a user, persisting it and adding it to
// the live registry.
func (r *Relay) FollowWallet(ctx context.Context, userID int64, address, label string) error {
	entry, err := r.registry.Add(userID, address, label, domain.DefaultSettings())
	if err != nil {
		return err
	}
	wallet := &domain.MonitoredWallet{
		UserID:  entry.UserID,
		Address: entry.Address,
		Label:   entry.Label,
		AddedAt: entry.AddedAt,
	}
	if err := r.walletRepo.Save(ctx, wallet); err != nil {
		// Roll the registry back so memory and storage stay consistent.
		_ = r.registry.Remove(entry.Address)
		return err
	}
	return nil
}

// UnfollowWallet removes a wallet from the registry and storage.
func (r *Relay) UnfollowWallet(ctx context.Context, address string) error {
	if err := r.registry.Remove(address); err != nil {
		return err
	}
	return r.walletRepo.Delete(ctx, domain.NormalizeAddress(address))
}

// UpdateSettings applies a settings patch across all of a user's wallets.
func (r *Relay) UpdateSettings(userID int64, patch domain.SettingsPatch) (int, domain.CopySettings) {
	return r.registry.UpdateSettings(userID, patch)
}

// Engine exposes the decision engine.
func (r *Relay) Engine() *engine.Engine { return r.engine }

// RPC exposes the RPC client.
func (r *Relay) RPC() *rpc.Client { return r.client }

// Risk exposes the global risk state.
func (r *Relay) Risk() *engine.RiskState { return r.risk }

// Trades exposes the trade record repository.
func (r *Relay) Trades() storage.TradeRecordRepository { return r.tradeRepo }
