package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"gateway-console/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Checker reports whether one component is usable
type Checker func(ctx context.Context) error

// HealthService provides health check functionality
type HealthService struct {
	mu             sync.RWMutex
	clock          interfaces.Clock
	logger         *logrus.Logger
	startTime      time.Time
	checks         map[string]Checker
	critical       map[string]bool
	networkBackend string
	checkTimeout   time.Duration
}

// HealthStatus represents health check status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth is the result of one check
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the health check response struct
type HealthResponse struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  string                     `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
	Statistics map[string]interface{}     `json:"statistics"`
}

// NewHealthService creates a new HealthService
func NewHealthService(clock interfaces.Clock, logger *logrus.Logger) *HealthService {
	return &HealthService{
		clock:        clock,
		logger:       logger,
		startTime:    clock.Now(),
		checks:       make(map[string]Checker),
		critical:     make(map[string]bool),
		checkTimeout: 2 * time.Second,
	}
}

// AddCheck registers a component check. A failing critical check makes the
// console unhealthy; any other failure only degrades it.
func (h *HealthService) AddCheck(name string, critical bool, check Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.checks[name] = check
	h.critical[name] = critical
}

// SetNetworkBackend sets the host network backend in use
func (h *HealthService) SetNetworkBackend(backend string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.networkBackend = backend
}

// ServeHTTP handles the HTTP health check endpoint
func (h *HealthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := h.Check(r.Context())

	// Set HTTP status code based on health status
	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("failed to encode health check response")
	}
}

// Check runs every registered check and builds the health response
func (h *HealthService) Check(ctx context.Context) HealthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make(map[string]ComponentHealth, len(names))
	status := StatusHealthy
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, h.checkTimeout)
		err := h.checks[name](checkCtx)
		cancel()

		if err == nil {
			components[name] = ComponentHealth{Healthy: true}
			continue
		}

		h.logger.WithError(err).WithField("component", name).Warn("health check failed")
		components[name] = ComponentHealth{Healthy: false, Error: err.Error()}
		if h.critical[name] {
			status = StatusUnhealthy
		} else if status == StatusHealthy {
			status = StatusDegraded
		}
	}

	now := h.clock.Now()
	statistics := map[string]interface{}{
		"uptime":          h.formatUptime(now.Sub(h.startTime)),
		"network_backend": h.networkBackend,
	}

	return HealthResponse{
		Status:     status,
		Timestamp:  now.Format(time.RFC3339),
		Components: components,
		Statistics: statistics,
	}
}

// formatUptime formats uptime duration to human-readable format
func (h *HealthService) formatUptime(duration time.Duration) string {
	days := int(duration.Hours()) / 24
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh%dm", days, hours, minutes)
	} else if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	} else {
		return fmt.Sprintf("%dm", minutes)
	}
}
