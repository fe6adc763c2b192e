// Package health reports liveness of the store and session cache plus the
// occupancy-consistency report the allocation invariants depend on.
package health

import (
	"context"
	"strconv"
	"time"

	"parkwise-backend/internal/application/lots"
	"parkwise-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

// Report is the /health/json payload.
type Report struct {
	Status       string               `json:"status"`
	Dependencies map[string]DepStatus `json:"dependencies"`
	Traffic      TrafficInfo          `json:"traffic"`
	Consistency  ConsistencyInfo      `json:"consistency"`
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

type TrafficInfo struct {
	TotalRequests int         `json:"totalRequests"`
	FailedCount   int         `json:"failedCount"`
	LastRequest   interface{} `json:"lastRequest"`
}

// ConsistencyInfo carries the result of the defensive available-spots
// recount (see lots.RecountAvailability).
type ConsistencyInfo struct {
	Checked bool         `json:"checked"`
	Drift   []lots.Drift `json:"drift"`
}

// Collect gathers health data from Redis, the optional DB pinger and the
// lot consistency check.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger, lotSvc *lots.Service) Report {
	report := Report{
		Status:       "ok",
		Dependencies: make(map[string]DepStatus),
	}

	dbStatus := "disconnected"
	var dbPingMs interface{}
	if db != nil {
		start := time.Now()
		if err := db.Ping(); err == nil {
			dbPingMs = time.Since(start).Milliseconds()
			dbStatus = "connected"
		} else {
			dbStatus = "error"
			report.Status = "degraded"
		}
	}
	report.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPingMs}

	redisStatus := "disconnected"
	var redisPingMs interface{}
	if rdb != nil {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			redisPingMs = time.Since(start).Milliseconds()
			redisStatus = "connected"

			report.Traffic.TotalRequests = intFromRedis(ctx, rdb, middleware.KeyReqTotal)
			report.Traffic.FailedCount = intFromRedis(ctx, rdb, middleware.KeyReqErrors)
			if raw, err := rdb.Get(ctx, middleware.KeyLastReq).Result(); err == nil {
				report.Traffic.LastRequest = raw
			}
		} else {
			redisStatus = "error"
			report.Status = "degraded"
		}
	}
	report.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPingMs}

	if lotSvc != nil {
		drift, err := lotSvc.RecountAvailability(ctx)
		if err == nil {
			report.Consistency = ConsistencyInfo{Checked: true, Drift: drift}
			if len(drift) > 0 {
				report.Status = "degraded"
			}
		}
	}

	return report
}

func intFromRedis(ctx context.Context, rdb *redis.Client, key string) int {
	raw, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return 0
	}
	n, _ := strconv.Atoi(raw)
	return n
}
