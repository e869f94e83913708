package entities

import "time"

const (
	HealthOK   = "ok"
	HealthDown = "down"
)

// ComponentStatus reports one dependency probed by the health check.
type ComponentStatus struct {
	Status    string `json:"status"`
	Details   string `json:"details"`
	LatencyMS int64  `json:"latency_ms"`
}

// HealthCheckResponse is served at /healthCheck. Status is "ok" only when
// every component is.
type HealthCheckResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
	UpSince    time.Time                  `json:"up_since"`
	Uptime     string                     `json:"uptime"`
}
