package handlers

import (
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db        *gorm.DB
	redis     *redis.Client
	inspector *asynq.Inspector
}

func NewHealthHandler(db *gorm.DB, redis *redis.Client, inspector *asynq.Inspector) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, inspector: inspector}
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health reports liveness of the database and, when configured, Redis.
// Redis is optional: with no queue the API falls back to synchronous mail.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := make(map[string]string)
	status := "healthy"

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(r.Context()) != nil {
		services["database"] = "unhealthy"
		status = "unhealthy"
	} else {
		services["database"] = "healthy"
	}

	if h.redis != nil {
		if err := h.redis.Ping(r.Context()).Err(); err != nil {
			services["redis"] = "unhealthy"
			status = "unhealthy"
		} else {
			services["redis"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{Status: status, Services: services})
}

type ReadyResponse struct {
	Status string         `json:"status"`
	Queues map[string]int `json:"queues,omitempty"`
}

// Ready reports whether the service can take traffic: the database must
// answer, and when the mail queue is configured its per-queue pending
// depth is included so operators can spot a stalled worker.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(r.Context()) != nil {
		writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{Status: "unavailable"})
		return
	}

	resp := ReadyResponse{Status: "ready"}
	if h.inspector != nil {
		queues, err := h.inspector.Queues()
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{Status: "unavailable"})
			return
		}
		resp.Queues = make(map[string]int, len(queues))
		for _, q := range queues {
			info, err := h.inspector.GetQueueInfo(q)
			if err != nil {
				continue
			}
			resp.Queues[q] = info.Pending
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
