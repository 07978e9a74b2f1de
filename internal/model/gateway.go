package model

// RootInfo is served at "/".
type RootInfo struct {
	Message     string `json:"message"`
	Environment string `json:"environment"`
}

// BackendStatus describes one configured backend in the status report.
type BackendStatus struct {
	Name           string `json:"name"`
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// GatewayStatus is served at /gateway/status.
type GatewayStatus struct {
	Status      string          `json:"status"`
	Version     string          `json:"version"`
	Environment string          `json:"environment"`
	FanOut      bool            `json:"search_fan_out"`
	Backends    []BackendStatus `json:"backends"`
}
