package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		err  error
		want string
	}{
		{"ok", &http.Response{StatusCode: 200}, nil, "ok"},
		{"created", &http.Response{StatusCode: 201}, nil, "ok"},
		{"bad request", &http.Response{StatusCode: 400}, nil, "400"},
		{"no response", nil, errors.New("refused"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Outcome(tt.resp, tt.err); got != tt.want {
				t.Errorf("Outcome = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstrumentTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	client := &http.Client{Transport: InstrumentTransport(m, nil)}

	for _, path := range []string{"/get_members", "/get_members", "/missing"} {
		resp, err := client.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
	}

	if got := testutil.ToFloat64(m.Requests("/get_members", "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Requests("/missing", "404")); got != 1 {
		t.Errorf("404 count = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(reg, "rollcall_api_request_duration_seconds"); n != 2 {
		t.Errorf("expected two histogram series, got %d", n)
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if got := GetOperator(ctx); got != "" {
		t.Errorf("expected empty operator, got %q", got)
	}
	if got := GetOperator(WithOperator(ctx, "AB")); got != "AB" {
		t.Errorf("expected AB, got %q", got)
	}
	if got := GetProcedure(ctx, "/"); got != "/" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := GetProcedure(WithProcedure(ctx, "/get_members"), "/"); got != "/get_members" {
		t.Errorf("expected /get_members, got %q", got)
	}
}
