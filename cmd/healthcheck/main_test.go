package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackAddr(t *testing.T) {
	tests := map[string]string{
		"":               defaultAddr,
		"garbage":        defaultAddr,
		"0.0.0.0:9090":   "127.0.0.1:9090",
		":7070":          "127.0.0.1:7070",
		"[::]:8081":      "127.0.0.1:8081",
		"10.0.0.5:8080":  "10.0.0.5:8080",
		"localhost:3000": "localhost:3000",
	}
	for in, want := range tests {
		assert.Equal(t, want, loopbackAddr(in), "input %q", in)
	}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "healthy", status: http.StatusOK, body: `{"status":"ok","time":"2026-01-01T00:00:00Z"}`},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: "unexpected status 500"},
		{name: "degraded", status: http.StatusOK, body: `{"status":"starting"}`, wantErr: `"starting"`},
		{name: "not json", status: http.StatusOK, body: `ok`, wantErr: "decoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/healthz", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := probe(context.Background(), srv.Client(), srv.URL+"/healthz")
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
