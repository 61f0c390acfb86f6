package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/config"
	"github.com/winnyineza/RindwaApp-sub000/internal/tracker"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	return cfg
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("RINDWA_WORKERS", "8")
	t.Setenv("RINDWA_HTTP_ADDR", ":7000")

	var f serveFlags
	cmd := &cobra.Command{Use: "serve"}
	f.register(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--workers", "4",
		"--sweep-interval", "0s",
	}))

	cfg, err := loadConfig(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers, "flag wins over env")
	assert.Equal(t, ":7000", cfg.HTTPAddr, "unset flag keeps env value")
	assert.Equal(t, time.Duration(0), cfg.SweepInterval)
}

func TestLoadConfig_RejectsInvalidFlag(t *testing.T) {
	var f serveFlags
	cmd := &cobra.Command{Use: "serve"}
	f.register(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--workers", "-1",
	}))

	_, err := loadConfig(cmd, f)
	assert.ErrorContains(t, err, "RINDWA_WORKERS")
}

func TestNewApp_InMemory(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	body, _ := json.Marshal(map[string]string{"email": "citizen@example.rw"})
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/incidents/inc-1/subscriptions", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body, _ = json.Marshal(types.NotificationUpdate{Status: "in_progress", Message: "On scene"})
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/incidents/inc-1/updates", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	recs, err := a.tracker.Records(context.Background(), tracker.RecordFilter{IncidentID: "inc-1"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Success, "unconfigured providers simulate success")
}

func TestNewApp_RedisLedger(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisAddr = mr.Addr()

	a, err := newApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.tracker.RecordDelivery(context.Background(), types.DeliveryRecord{
		Target:  "citizen@example.rw",
		Channel: types.ChannelEmail,
		Success: true,
	}))
	assert.True(t, mr.Exists(tracker.DefaultRedisKey))
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := testConfig(t)
	cfg.RedisAddr = addr
	_, err = newApp(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "connect to redis")
}

func TestServer_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(ln.Addr().String(), h, zap.NewNop()).Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
