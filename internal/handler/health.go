// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/campusweb/internal/middleware"
	"github.com/olegiv/campusweb/internal/version"
)

// checkTimeout bounds each dependency ping of every probe.
const checkTimeout = 2 * time.Second

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type namedCheck struct {
	name    string
	pinger  Pinger
	failMsg string
	okMsg   string
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	checks    []namedCheck
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Pinger, v version.Info) *HealthHandler {
	return &HealthHandler{
		checks: []namedCheck{
			{name: "database", pinger: db, failMsg: "Database unreachable", okMsg: "Connected"},
		},
		version:   v,
		startTime: time.Now(),
	}
}

// AddCheck registers another dependency probed by Health and Readiness,
// such as the Redis session cache.
func (h *HealthHandler) AddCheck(name string, p Pinger) {
	h.checks = append(h.checks, namedCheck{
		name:    name,
		pinger:  p,
		failMsg: "Unreachable",
		okMsg:   "Connected",
	})
}

// HealthStatusPublic is the minimal health response for anonymous callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed health response for administrators.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   version.Info     `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime statistics.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health. Administrators get check details; everyone
// else gets the overall status only.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks, healthy := h.runChecks(r.Context())

	overallStatus := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		overallStatus = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	user := middleware.GetUser(r)
	if user == nil || !user.IsAdmin {
		writeData(w, statusCode, HealthStatusPublic{Status: overallStatus})
		return
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = systemInfo()
	}
	writeData(w, statusCode, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, HealthStatusPublic{Status: "alive"})
}

// Readiness handles GET /health/ready: ready when every registered dependency answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if _, healthy := h.runChecks(r.Context()); !healthy {
		writeData(w, http.StatusServiceUnavailable, HealthStatusPublic{Status: "not_ready"})
		return
	}
	writeOK(w, HealthStatusPublic{Status: "ready"})
}

func (h *HealthHandler) runChecks(ctx context.Context) (map[string]Check, bool) {
	results := make(map[string]Check, len(h.checks))
	healthy := true
	for _, c := range h.checks {
		res := c.run(ctx)
		if res.Status != "healthy" {
			healthy = false
		}
		results[c.name] = res
	}
	return results, healthy
}

func (c namedCheck) run(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := c.pinger.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: c.failMsg,
			Latency: latency.String(),
		}
	}
	return Check{
		Status:  "healthy",
		Message: c.okMsg,
		Latency: latency.String(),
	}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
