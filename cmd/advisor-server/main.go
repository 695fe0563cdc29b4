package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/cache"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/httpapi"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/prediction"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/producer"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/settlement"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/simulator"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/stats"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/store"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/ws"
	sharedcache "github.com/radieske/sports-bet-advisor-poc/internal/shared/cache"
	"github.com/radieske/sports-bet-advisor-poc/internal/shared/config"
	"github.com/radieske/sports-bet-advisor-poc/internal/shared/db"
	"github.com/radieske/sports-bet-advisor-poc/internal/shared/logger"
	"github.com/radieske/sports-bet-advisor-poc/internal/shared/metrics"
)

func main() {
	_ = godotenv.Load() // .env opcional em dev

	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx := context.Background()

	// Storage: memória por default, Postgres quando configurado
	var st store.Store
	switch cfg.StoreBackend {
	case "postgres":
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("postgres connect", zap.Error(err))
		}
		defer pg.Close()
		st = store.NewPostgres(pg)
		log.Info("postgres store ready")
	default:
		st = store.NewMemory()
		log.Info("in-memory store ready")
	}

	if cfg.SeedDemoData {
		if err := store.SeedDemo(ctx, st, time.Now().UTC()); err != nil {
			log.Fatal("seed demo data", zap.Error(err))
		}
		log.Info("demo data seeded")
	}

	// Redis opcional: cache de jogos + Pub/Sub do WebSocket
	var gamesCache *cache.Cache
	var redisBroadcaster *ws.RedisBroadcaster
	if cfg.RedisAddr != "" {
		rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		gamesCache = cache.New(rdb)
		redisBroadcaster = &ws.RedisBroadcaster{R: rdb, Channel: cfg.RedisPubSubChannel}
		log.Info("redis connected")
	}

	// Kafka opcional: eventos bet_placed/bet_settled
	var pub producer.Producer = producer.Noop{}
	if cfg.KafkaBrokers != "" {
		kp := producer.NewKafka(cfg.KafkaBrokers, cfg.TopicBetPlaced, cfg.TopicBetSettled, log)
		defer kp.Close()
		pub = kp
		log.Info("kafka producer ready",
			zap.String("topic_placed", cfg.TopicBetPlaced),
			zap.String("topic_settled", cfg.TopicBetSettled),
		)
	}

	// WebSocket hub; com Redis o broadcast passa pelo Pub/Sub, sem Redis
	// vai direto pro hub local
	hub := ws.NewHub(func(*http.Request) bool { return true })
	var broadcaster settlement.Broadcaster
	if redisBroadcaster != nil {
		broadcaster = redisBroadcaster
		ws.StartRedisSubscriber(ctx, redisBroadcaster.R, cfg.RedisPubSubChannel, hub, log)
	} else {
		broadcaster = &ws.DirectBroadcaster{Hub: hub}
	}

	// Métricas Prometheus do funil de apostas
	betsPlaced := prometheus.NewCounter(prometheus.CounterOpts{Name: "advisor_bets_placed_total", Help: "apostas aceitas"})
	betsSettled := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "advisor_bets_settled_total", Help: "apostas liquidadas por resultado"}, []string{"result"})
	predsGenerated := prometheus.NewCounter(prometheus.CounterOpts{Name: "advisor_predictions_generated_total", Help: "previsões geradas pelo modelo"})
	predsFallback := prometheus.NewCounter(prometheus.CounterOpts{Name: "advisor_predictions_fallback_total", Help: "previsões de fallback"})
	gamesSimulated := prometheus.NewCounter(prometheus.CounterOpts{Name: "advisor_games_simulated_total", Help: "jogos simulados"})
	prometheus.MustRegister(betsPlaced, betsSettled, predsGenerated, predsFallback, gamesSimulated)

	// Componentes de domínio
	sim := simulator.New(st, log, nil)
	sim.OnSimulated = func() { gamesSimulated.Inc() }

	engine := settlement.NewEngine(st, log, pub, broadcaster)
	engine.OnSettled = func(result model.BetStatus) { betsSettled.WithLabelValues(string(result)).Inc() }

	agg := stats.NewAggregator(st, log)

	llm := prediction.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	predSvc := prediction.NewService(st, log, llm)
	predSvc.OnGenerated = func() { predsGenerated.Inc() }
	predSvc.OnFallback = func() { predsFallback.Inc() }

	// previsões dos jogos do seed geradas em background no boot
	go func() {
		if _, err := predSvc.RefreshAll(ctx); err != nil {
			log.Warn("initial prediction refresh failed", zap.Error(err))
		}
	}()

	api := &httpapi.API{
		Store:       st,
		Simulator:   sim,
		Settlement:  engine,
		Stats:       agg,
		Predictions: predSvc,
		Producer:    pub,
		Cache:       gamesCache,
		Hub:         hub,
		Log:         log,
		OnBetPlaced: func() { betsPlaced.Inc() },
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return st.Ping(ctx)
	})
	log.Info("metrics/health server started", zap.String("port", cfg.MetricsPort))

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}
	log.Info("advisor-server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api server failed", zap.Error(err))
	}
}
