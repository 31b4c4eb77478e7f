package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wraythex/gmp-ecm/config"
)

func TestDefaultUsesBuiltinBlockLen(t *testing.T) {
	t.Setenv("MPZSPV_FROMTO_MPZV_BLOCKLEN", "")
	os.Unsetenv("MPZSPV_FROMTO_MPZV_BLOCKLEN")

	cfg := config.Default()
	require.Equal(t, 65536, cfg.StreamBlockLen)
	require.False(t, cfg.UseAsyncIO)
}

func TestLoadParsesYAML(t *testing.T) {
	data := []byte(`
stream_block_len: 4096
use_async_io: true
oversize_buffer_bytes: 64
`)
	cfg, err := config.Load(data)
	require.NoError(t, err)
	require.Equal(t, 4096, cfg.StreamBlockLen)
	require.True(t, cfg.UseAsyncIO)
	require.Equal(t, uint32(64), cfg.OversizeBufferBytes)
}

func TestLoadFallsBackToEnvBlockLen(t *testing.T) {
	t.Setenv("MPZSPV_FROMTO_MPZV_BLOCKLEN", "777")

	cfg, err := config.Load([]byte(`use_async_io: true`))
	require.NoError(t, err)
	require.Equal(t, 777, cfg.StreamBlockLen)
}

func TestLoadRejectsNegativeBlockLen(t *testing.T) {
	_, err := config.Load([]byte(`stream_block_len: -1`))
	require.Error(t, err)
}

func TestLoadExplicitZeroFallsBackToDefault(t *testing.T) {
	t.Setenv("MPZSPV_FROMTO_MPZV_BLOCKLEN", "")
	os.Unsetenv("MPZSPV_FROMTO_MPZV_BLOCKLEN")

	cfg, err := config.Load([]byte("stream_block_len: 0\nuse_async_io: false"))
	require.NoError(t, err)
	require.Equal(t, 65536, cfg.StreamBlockLen)
}
