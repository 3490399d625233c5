// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/roshambo/internal/auth"
	"github.com/jason-s-yu/roshambo/internal/cache"
	"github.com/jason-s-yu/roshambo/internal/chain"
	"github.com/jason-s-yu/roshambo/internal/config"
	"github.com/jason-s-yu/roshambo/internal/game"
	"github.com/jason-s-yu/roshambo/internal/handlers"
	"github.com/jason-s-yu/roshambo/internal/ids"
	"github.com/jason-s-yu/roshambo/internal/room"
	"github.com/jason-s-yu/roshambo/internal/settlement"
	"github.com/jason-s-yu/roshambo/internal/store"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if err := auth.Init(cfg.TokenExpire); err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var s store.Store
	switch cfg.Store {
	case config.StoreRedis:
		rdb, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatal(err)
		}
		defer rdb.Close()
		s = cache.NewRedisStore(rdb, cfg.QueueName)
	default:
		s = store.NewMemoryStore()
	}

	gen := ids.NewGenerator()
	if err := observeIDs(ctx, s, gen); err != nil {
		logger.Fatalf("load existing ids: %v", err)
	}

	random, err := chain.NewSeededRandom()
	if err != nil {
		logger.Fatal(err)
	}
	host := chain.NewHost(s, chain.NewMonotonicClock(), random, logger)
	rooms := room.NewRegistry(s, cfg.Fees, gen, logger)
	engine := game.NewEngine(s, rooms, cfg.Fees, gen, logger)
	srv := handlers.NewGameServer(host, rooms, engine, settlement.New(s, cfg.Fees, logger), logger)

	mux := http.NewServeMux()
	srv.Routes(mux, logger)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	logger.WithFields(logrus.Fields{
		"addr":  httpSrv.Addr,
		"store": cfg.Store,
	}).Info("roshambo server running")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
}

// observeIDs feeds persisted ids to the generator so restarts never reissue one.
func observeIDs(ctx context.Context, s store.Store, gen *ids.Generator) error {
	roomIDs, err := s.RoomIDs(ctx)
	if err != nil {
		return err
	}
	gameIDs, err := s.GameIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range append(roomIDs, gameIDs...) {
		gen.Observe(id)
	}
	for _, id := range gameIDs {
		g, err := s.GetGame(ctx, id)
		if err != nil {
			return err
		}
		for _, p := range g.Players {
			gen.Observe(p.ID)
		}
		for _, st := range g.Stakers {
			gen.Observe(st.ID)
		}
	}
	return nil
}
