package server

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/aristath/bank/internal/database"
	"github.com/aristath/bank/internal/httpapi"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const healthCheckTimeout = 5 * time.Second

// SystemHandlers serves the health and status endpoints
type SystemHandlers struct {
	databases map[string]*database.DB
	startedAt time.Time
	log       zerolog.Logger

	// host probes, replaced in tests
	cpuPercent    func() (float64, error)
	memoryPercent func() (float64, error)
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Databases map[string]string `json:"databases"`
}

// StatusResponse is the body of GET /system/status
type StatusResponse struct {
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Goroutines    int                        `json:"goroutines"`
	CPUPercent    float64                    `json:"cpu_percent"`
	MemoryPercent float64                    `json:"memory_percent"`
	Databases     map[string]*database.Stats `json:"databases"`
}

// NewSystemHandlers creates the system handlers
func NewSystemHandlers(databases map[string]*database.DB, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		databases:     databases,
		startedAt:     time.Now(),
		log:           log.With().Str("handler", "system").Logger(),
		cpuPercent:    hostCPUPercent,
		memoryPercent: hostMemoryPercent,
	}
}

// HandleHealth pings every database.
// GET /health
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Service:   "bank",
		Databases: make(map[string]string, len(h.databases)),
	}
	status := http.StatusOK

	for _, name := range h.databaseNames() {
		if err := h.databases[name].QuickCheck(ctx); err != nil {
			h.log.Warn().Err(err).Str("database", name).Msg("Database health check failed")
			resp.Databases[name] = err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Databases[name] = "ok"
	}

	httpapi.WriteJSON(w, h.log, status, resp)
}

// HandleStatus reports host load and database sizes.
// GET /system/status
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		Databases:     make(map[string]*database.Stats, len(h.databases)),
	}

	cpuPct, err := h.cpuPercent()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
	}
	resp.CPUPercent = cpuPct

	memPct, err := h.memoryPercent()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
	}
	resp.MemoryPercent = memPct

	for _, name := range h.databaseNames() {
		stats, err := h.databases[name].GetStats()
		if err != nil {
			h.log.Warn().Err(err).Str("database", name).Msg("Failed to get database stats")
			continue
		}
		resp.Databases[name] = stats
	}

	httpapi.WriteJSON(w, h.log, http.StatusOK, resp)
}

func (h *SystemHandlers) databaseNames() []string {
	names := make([]string, 0, len(h.databases))
	for name, db := range h.databases {
		if db != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// hostCPUPercent samples over 100ms so the endpoint stays responsive
func hostCPUPercent() (float64, error) {
	percents, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, nil
	}
	return percents[0], nil
}

func hostMemoryPercent() (float64, error) {
	stat, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return stat.UsedPercent, nil
}
