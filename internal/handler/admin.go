package handler

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"steamsync-api/internal/repository"
	"steamsync-api/internal/service"
	"steamsync-api/pkg/apierror"
	"steamsync-api/pkg/response"
)

// AdminHandler handles operator endpoints.
type AdminHandler struct {
	auth      *service.AuthService
	stats     repository.StatsRepository
	cacheType string
	logger    *slog.Logger
	startTime time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	auth *service.AuthService,
	stats repository.StatsRepository,
	cacheType string,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		auth:      auth,
		stats:     stats,
		cacheType: cacheType,
		logger:    orDefault(logger),
		startTime: time.Now(),
	}
}

type createAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateAdmin handles POST /api/v1/admins
func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		response.Error(w, apierror.BadRequest("username and password are required"))
		return
	}

	a, err := h.auth.CreateAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Created(w, a)
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]interface{})

	// System info
	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().UTC().Format(time.RFC3339)
	stats["cache_type"] = h.cacheType

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	if h.stats != nil {
		storage, err := h.stats.Stats(r.Context())
		if err != nil {
			h.logger.ErrorContext(r.Context(), "storage stats failed", "error", err)
			stats["storage"] = map[string]interface{}{"status": "error"}
		} else {
			stats["storage"] = storage
		}
	}

	response.OK(w, stats)
}
