package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"memberdir/config"
)

func TestResolveServePort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configured int
		flagValue  int
		changed    bool
		want       int
	}{
		{name: "config wins when flag untouched", configured: 9090, flagValue: 8080, changed: false, want: 9090},
		{name: "explicit flag overrides config", configured: 9090, flagValue: 7070, changed: true, want: 7070},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveServePort(tt.configured, tt.flagValue, tt.changed); got != tt.want {
				t.Fatalf("expected port %d, got %d", tt.want, got)
			}
		})
	}
}

func TestNewHTTPServer_ServesPreloadedSession(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	session := newSession(cfg)
	path := writeSheet(t, "members.csv", sheetHeader+"Ali Hassan,1234,,,,,,\n")
	if _, err := loadFile(context.Background(), session, path); err != nil {
		t.Fatalf("preload: %v", err)
	}

	server := newHTTPServer(session, cfg, 9191)
	if server.Addr != "127.0.0.1:9191" {
		t.Fatalf("expected loopback address, got %q", server.Addr)
	}
	if server.ReadHeaderTimeout == 0 {
		t.Fatalf("expected read header timeout to be set")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	res := httptest.NewRecorder()
	server.Handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	var body struct {
		State   string `json:"state"`
		Members int    `json:"members"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if body.State != "loaded" || body.Members != 1 {
		t.Fatalf("unexpected status: %+v", body)
	}
}
