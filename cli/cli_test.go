package cli

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bfsiocr/config"
	"bfsiocr/logger"
)

func TestServeFlagsApply(t *testing.T) {
	cfg := config.Default()
	serveFlags{addr: ":9999", ocr: "static", debug: true}.apply(&cfg)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "static", cfg.OCR.Engine)
	assert.Equal(t, "debug", cfg.Log.Level)

	cfg = config.Default()
	serveFlags{}.apply(&cfg)
	assert.Equal(t, config.Default(), cfg)
}

func TestBuildApp(t *testing.T) {
	cfg := config.Default()
	cfg.OCR.Engine = "static"

	app, err := buildApp(cfg, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, "static", app.Analysis.OCR.Name())
	assert.Equal(t, []string{"eng"}, app.Analysis.Languages)
	assert.Equal(t, cfg.Server.MaxUploadBytes, app.MaxUploadBytes)
}

func TestBuildAppRejectsUnknownLocale(t *testing.T) {
	cfg := config.Default()
	cfg.OCR.Engine = "static"
	cfg.Locale.Default = "!!"

	_, err := buildApp(cfg, logger.Discard())
	assert.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	go func() { done <- serve(ctx, addr, h, logger.Discard()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
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
		t.Fatal("serve did not stop")
	}
}

func TestRootHasServe(t *testing.T) {
	cmd := newRootCmd()
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
	assert.NotNil(t, serve.Flags().Lookup("config"))
}
