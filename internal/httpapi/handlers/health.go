package handlers

import (
	"context"
	"net/http"
	"time"

	"rosterboard/internal/httpkit"
)

type checkResult struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Mode      string `json:"mode,omitempty"`
	LatencyMS int64  `json:"latency_ms,omitempty"`
	Conns     int32  `json:"conns,omitempty"`
}

type healthResponse struct {
	Status  string                 `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Checks  map[string]checkResult `json:"checks,omitempty"`
}

// Health reports liveness; with ?deep=true it also pings postgres, redis and
// the messaging channel.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Service: "rosterboard",
		Version: "0.1.0",
	}

	if r.URL.Query().Get("deep") == "true" {
		resp.Checks = map[string]checkResult{
			"postgres": h.checkPostgres(r.Context()),
			"redis":    h.checkRedis(r.Context()),
			"channel":  h.checkChannel(),
		}
		for _, c := range resp.Checks {
			if c.Status != "ok" {
				resp.Status = "degraded"
				h.log.FromContext(r.Context()).Warn("health check degraded", "checks", resp.Checks)
				break
			}
		}
	}

	httpkit.WriteJSON(w, 200, resp)
}

func (h *Handler) checkPostgres(ctx context.Context) checkResult {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	res := checkResult{Status: "ok"}
	if err := h.pool.Ping(ctx); err != nil {
		res.Status = "error"
		res.Error = err.Error()
	} else {
		res.Conns = h.pool.Stat().TotalConns()
	}
	res.LatencyMS = time.Since(start).Milliseconds()
	return res
}

func (h *Handler) checkRedis(ctx context.Context) checkResult {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	res := checkResult{Status: "ok"}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		res.Status = "error"
		res.Error = err.Error()
	}
	res.LatencyMS = time.Since(start).Milliseconds()
	return res
}

// checkChannel reports the messaging channel state. Non-leader processes
// report mode "remote": their sends travel through the delivery queue to the
// leader.
func (h *Handler) checkChannel() checkResult {
	if h.channel == nil {
		return checkResult{Status: "ok", Mode: "remote"}
	}
	res := checkResult{Status: "ok", Mode: "direct"}
	if !h.channel.IsAvailable() {
		res.Status = "error"
		res.Error = "channel unavailable"
	}
	return res
}
