package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Gunvolt24/merchant_dash/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	_, ok, err := kv.Get(ctx, "@token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "@token", []byte("abc")))
	require.NoError(t, kv.Set(ctx, "@token", []byte("def")))

	got, ok, err := kv.Get(ctx, "@token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "def", string(got))

	require.NoError(t, kv.Delete(ctx, "@token"))
	require.NoError(t, kv.Delete(ctx, "@token"), "missing key is not an error")

	_, ok, err = kv.Get(ctx, "@token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKV_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "merchant.db")

	kv, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "@merchant_settings_v1", []byte(`{"soundChoice":2}`)))
	require.NoError(t, kv.Close())

	// повторное открытие: миграции уже применены
	kv, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	got, ok, err := kv.Get(ctx, "@merchant_settings_v1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"soundChoice":2}`, string(got))
}

func TestKV_EmptyValue(t *testing.T) {
	ctx := context.Background()
	kv, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	require.NoError(t, kv.Set(ctx, "k", nil))
	got, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}
