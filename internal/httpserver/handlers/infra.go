package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nbscout/nbscout/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	RecordsLoaded *int64 `json:"records_loaded,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	PipelineMode string                     `json:"pipeline_mode"`
	Components   map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		components := map[string]componentStatus{
			"store": checkStore(r.Context(), d),
			"redis": checkRedis(d),
		}

		response := infraResponse{
			PipelineMode: determinePipelineMode(components),
			Components:   components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// determinePipelineMode summarizes component health into one word.
// Store down = critical (nothing works). Redis down = degraded (no
// result cache, counters land directly in the store).
func determinePipelineMode(components map[string]componentStatus) string {
	if st, exists := components["store"]; exists && !st.OK {
		return "critical"
	}
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}
	return "optimal"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:    false,
			Error: "unreachable",
		}
	}

	count, err := d.Store.CountRecords(ctx)
	if err != nil {
		return componentStatus{
			OK:    false,
			Error: "count failed",
		}
	}

	return componentStatus{
		OK:            count > 0,
		RecordsLoaded: &count,
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "result-cache-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "result-cache-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "result-cache-enabled",
		Error:  "none",
	}
}
