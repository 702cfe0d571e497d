package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"elearning_backend/internal/config"
	"elearning_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageProviderRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}

	require.NoError(t, p.Upload(ctx, "submissions/a.txt", strings.NewReader("hello"), 5, "text/plain"))

	body, err := p.Open(ctx, "submissions/a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "hello", string(data))

	require.NoError(t, p.Delete(ctx, "submissions/a.txt"))
	_, err = p.Open(ctx, "submissions/a.txt")
	assert.ErrorIs(t, err, util.ErrNotFound)
}
