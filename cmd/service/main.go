package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"room-service/internal/catalog"
	"room-service/internal/provider"
	"room-service/internal/realtime"
	"room-service/internal/room"
)

func main() {
	ctx := context.Background()

	port := getenv("PORT", "4000")
	redisURL := getenv("REDIS_URL", "")
	databaseURL := getenv("DATABASE_URL", "")
	ytAPIKey := getenv("YOUTUBE_API_KEY", "")
	ytSearchURL := getenv("YOUTUBE_SEARCH_URL", "https://www.googleapis.com/youtube/v3/search")

	cat := catalog.New()

	// Redis is optional: without it events are delivered in-process only.
	var rdb *redis.Client
	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("room-service: invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("room-service: redis unreachable, using in-process delivery: %v", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	hub := realtime.NewHub()
	bus := realtime.NewBus(hub, rdb, ctx)
	go hub.Run()
	if rdb != nil {
		go bus.RunRedisSubscriber()
	}

	store := newStore(ctx, databaseURL, cat)

	roomSrv := room.NewServer(store, bus)
	rtSrv := realtime.NewServer(hub, bus)
	catSrv := catalog.NewServer(cat)
	musicSrv := provider.NewServer(provider.NewYouTubeClient(ytAPIKey, ytSearchURL))
	if ytAPIKey == "" {
		log.Printf("room-service: YOUTUBE_API_KEY not set, music search will fail upstream")
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","service":"room-service"}`))
	})

	r.Mount("/rooms", roomSrv.Router())
	r.Mount("/music", musicSrv.Router())
	catSrv.Register(r)
	r.Get("/ws", rtSrv.HandleWS)
	r.Post("/events", rtSrv.HandleEvents)

	log.Printf("room-service listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("room-service: %v", err)
	}
}

// newStore prefers the durable store and degrades to memory when the database
// is not configured or not reachable, so the room flow keeps working either
// way. The fallback is not retried against the primary store.
func newStore(ctx context.Context, databaseURL string, resolver room.TrackResolver) room.Store {
	if databaseURL == "" {
		log.Printf("room-service: DATABASE_URL not set, using in-memory store")
		return room.NewMemoryStore(resolver)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err == nil {
		err = pool.Ping(ctx)
	}
	if err == nil {
		err = room.AutoMigrate(ctx, pool)
	}
	if err != nil {
		log.Printf("room-service: postgres unavailable, falling back to in-memory store: %v", err)
		if pool != nil {
			pool.Close()
		}
		return room.NewMemoryStore(resolver)
	}
	return room.NewPostgresStore(pool, resolver)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
