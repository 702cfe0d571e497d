package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"elearning_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	write := func(level string) {
		body := "jwt:\n  secret: watcher-secret\nstorage:\n  type: minio\nlog:\n  level: " + level + "\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	write("info")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(cfg *config.Config) { reloaded <- cfg })
	}()

	// give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)
	write("warn")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "warn", cfg.Log.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
