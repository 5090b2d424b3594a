// AngelaMos | 2026
// handler.go

package ops

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

// Config wires the probes. Redis fields stay nil when redis is not
// configured and the response omits that section.
type Config struct {
	Repo       Repository
	DBStats    func() sql.DBStats
	DBPing     func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
}

type Handler struct {
	repo       Repository
	dbStats    func() sql.DBStats
	dbPing     func(ctx context.Context) error
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	now        func() time.Time
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		repo:       cfg.Repo,
		dbStats:    cfg.DBStats,
		dbPing:     cfg.DBPing,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/ops", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.Stats)
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := StatsResponse{
		Database: DatabaseStatus{
			Healthy: h.dbPing == nil || h.dbPing(ctx) == nil,
			Pool:    h.poolStats(),
		},
		Runtime: runtimeStats(),
	}

	if h.repo != nil {
		counts, err := h.repo.Counts(ctx, h.now())
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		resp.Store = counts
	}

	if h.redisStats != nil {
		stats := h.redisStats()
		resp.Redis = &RedisStatus{
			Healthy: h.redisPing == nil || h.redisPing(ctx) == nil,
			Hits:    stats.Hits,
			Misses:  stats.Misses,
			Total:   stats.TotalConns,
			Idle:    stats.IdleConns,
			Stale:   stats.StaleConns,
		}
	}

	core.OK(w, resp)
}

func (h *Handler) poolStats() *PoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &PoolStats{
		MaxOpen:      stats.MaxOpenConnections,
		Open:         stats.OpenConnections,
		InUse:        stats.InUse,
		Idle:         stats.Idle,
		WaitCount:    stats.WaitCount,
		WaitDuration: stats.WaitDuration.String(),
	}
}

func runtimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  mem.HeapAlloc,
		NumGC:      mem.NumGC,
	}
}

type StatsResponse struct {
	Store    *StoreCounts   `json:"store,omitempty"`
	Database DatabaseStatus `json:"database"`
	Redis    *RedisStatus   `json:"redis,omitempty"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool       `json:"healthy"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

type PoolStats struct {
	MaxOpen      int    `json:"maxOpen"`
	Open         int    `json:"open"`
	InUse        int    `json:"inUse"`
	Idle         int    `json:"idle"`
	WaitCount    int64  `json:"waitCount"`
	WaitDuration string `json:"waitDuration"`
}

type RedisStatus struct {
	Healthy bool   `json:"healthy"`
	Hits    uint32 `json:"hits"`
	Misses  uint32 `json:"misses"`
	Total   uint32 `json:"totalConns"`
	Idle    uint32 `json:"idleConns"`
	Stale   uint32 `json:"staleConns"`
}

type RuntimeStats struct {
	GoVersion  string `json:"goVersion"`
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heapAllocBytes"`
	NumGC      uint32 `json:"numGC"`
}
