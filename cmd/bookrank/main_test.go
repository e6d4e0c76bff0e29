package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emzola/bookrank/config"
	"github.com/emzola/bookrank/internal/jsonlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T, appID, affiliateID string) {
	t.Helper()
	t.Setenv("RAKUTEN_APP_ID", appID)
	t.Setenv("RAKUTEN_AFFILIATE_ID", affiliateID)
	t.Setenv("FALLBACK_FILE", "")
	t.Setenv("REVALIDATE", "1h")
}

func absentConfig(t *testing.T) []string {
	return []string{"-config", filepath.Join(t.TempDir(), "absent.yaml")}
}

func TestRunFailsFast(t *testing.T) {
	testCases := []struct {
		name        string
		appID       string
		affiliateID string
		fallback    string
		wantErr     error
		wantMessage string
	}{
		{name: "missing application id", affiliateID: "aff", wantErr: config.ErrMissingCredential, wantMessage: "RAKUTEN_APP_ID"},
		{name: "missing affiliate id", appID: "app", wantErr: config.ErrMissingCredential, wantMessage: "RAKUTEN_AFFILIATE_ID"},
		{name: "unreadable fallback file", appID: "app", affiliateID: "aff", fallback: "does-not-exist.yaml", wantErr: os.ErrNotExist, wantMessage: "load fallback books"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setCredentials(t, tc.appID, tc.affiliateID)
			if tc.fallback != "" {
				t.Setenv("FALLBACK_FILE", filepath.Join(t.TempDir(), tc.fallback))
			}
			var logs bytes.Buffer

			done := make(chan error, 1)
			go func() { done <- run(absentConfig(t), jsonlog.New(&logs, jsonlog.LevelInfo)) }()

			select {
			case err := <-done:
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Contains(t, err.Error(), tc.wantMessage)
				assert.NotContains(t, logs.String(), "starting server")
			case <-time.After(5 * time.Second):
				t.Fatal("run did not return; the server started without a usable configuration")
			}
		})
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	err := run([]string{"-no-such-flag"}, jsonlog.New(&bytes.Buffer{}, jsonlog.LevelInfo))
	assert.Error(t, err)
}

func TestNewApp(t *testing.T) {
	var cfg config.Config
	cfg.Rakuten.ApplicationID = "app"
	cfg.Rakuten.AffiliateID = "aff"

	t.Run("with revalidation cache", func(t *testing.T) {
		cfg := cfg
		cfg.Cache.Revalidate = time.Hour
		var logs bytes.Buffer

		a, err := newApp(cfg, jsonlog.New(&logs, jsonlog.LevelInfo))

		require.NoError(t, err)
		assert.NotNil(t, a.handler)
		assert.NotNil(t, a.cache)
		assert.Contains(t, logs.String(), "fallback data set loaded")
	})

	t.Run("zero window disables the cache", func(t *testing.T) {
		a, err := newApp(cfg, jsonlog.New(&bytes.Buffer{}, jsonlog.LevelInfo))

		require.NoError(t, err)
		assert.Nil(t, a.cache)
	})

	t.Run("fallback file from config", func(t *testing.T) {
		cfg := cfg
		path := filepath.Join(t.TempDir(), "books.yaml")
		require.NoError(t, os.WriteFile(path, []byte("books:\n  - title: 坊っちゃん\n    rank: 1\n"), 0o600))
		cfg.Fallback.File = path
		var logs bytes.Buffer

		_, err := newApp(cfg, jsonlog.New(&logs, jsonlog.LevelInfo))

		require.NoError(t, err)
		assert.Contains(t, logs.String(), `"books":"1"`)
	})
}
