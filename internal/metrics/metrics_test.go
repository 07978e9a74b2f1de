package metrics

import (
	"testing"
)

func TestNew_GathersMetrics(t *testing.T) {
	m := New()

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	// Should include at least Go runtime and process collectors.
	if len(families) == 0 {
		t.Fatal("expected non-empty metric families from Gather()")
	}

	// Vec collectors only show up once a label set has been observed.
	m.RequestsTotal.WithLabelValues("GET", "200", "/api/v1/channels").Inc()
	m.UpstreamFailures.WithLabelValues("channels", "network").Inc()
	m.BreakerState.WithLabelValues("channels").Set(2)

	families, err = m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	want := map[string]bool{
		"chat_gateway_http_requests_total":     false,
		"chat_gateway_upstream_failures_total": false,
		"chat_gateway_upstream_breaker_state":  false,
	}
	for _, f := range families {
		if _, ok := want[f.GetName()]; ok {
			want[f.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %s in gathered metrics", name)
		}
	}
}

func TestNormalizeMethod(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"GET", "GET"},
		{"POST", "POST"},
		{"PUT", "PUT"},
		{"DELETE", "DELETE"},
		{"PATCH", "PATCH"},
		{"HEAD", "HEAD"},
		{"OPTIONS", "OPTIONS"},
		{"FOOBAR", "other"},
		{"get", "other"},
		{"X-CUSTOM", "other"},
		{"", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got := NormalizeMethod(tt.method)
			if got != tt.want {
				t.Errorf("NormalizeMethod(%q) = %q, want %q", tt.method, got, tt.want)
			}
		})
	}
}

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/channels/:channel_id", "/api/v1/channels/:channel_id"},
		{"/healthz", "/healthz"},
		{"", "other"},
		{"/*", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			got := NormalizeRoute(tt.route)
			if got != tt.want {
				t.Errorf("NormalizeRoute(%q) = %q, want %q", tt.route, got, tt.want)
			}
		})
	}
}
