// Package config holds the ambient I/O tuning knobs for buffered vector
// storage: stream block length, whether to use the async double-buffer
// path, and an oversize-buffer byte count.
//
// Grounded on lattigo's Parameters/ParametersLiteral split (core/rlwe/params.go):
// a literal, YAML/JSON-friendly struct that Load validates and fills in
// defaults for, mirroring NewParametersFromLiteral's role there.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wraythex/gmp-ecm/internal/xerr"
)

// envBlockLen is the legacy environment-variable override for
// StreamBlockLen, kept for deployments that set it instead of shipping
// an IOConfig file.
const envBlockLen = "MPZSPV_FROMTO_MPZV_BLOCKLEN"

// defaultStreamBlockLen is used when neither the config file nor
// envBlockLen supplies a value.
const defaultStreamBlockLen = 65536

// IOConfig tunes the listz buffered vector handles.
type IOConfig struct {
	// StreamBlockLen is the number of field elements moved per
	// streaming read/write chunk between a Handle and an in-memory
	// working vector. Zero means "use the environment default or
	// defaultStreamBlockLen".
	StreamBlockLen int `yaml:"stream_block_len"`

	// UseAsyncIO enables the double-buffered background-goroutine I/O
	// path in listz.Reader and listz.Writer; false forces synchronous
	// reads/writes.
	UseAsyncIO bool `yaml:"use_async_io"`

	// OversizeBufferBytes is parsed and stored as given. No listz code
	// reads it, so it does not change the size of any I/O buffer.
	OversizeBufferBytes uint32 `yaml:"oversize_buffer_bytes"`
}

// Default returns the zero-config baseline: synchronous I/O, the
// environment or built-in default block length, no oversize padding.
func Default() IOConfig {
	return IOConfig{
		StreamBlockLen: resolveBlockLen(0),
		UseAsyncIO:     false,
	}
}

// Load parses YAML-encoded IOConfig data and fills in defaults for any
// zero-valued field. StreamBlockLen left at zero falls back to
// envBlockLen (read once here) and finally defaultStreamBlockLen.
func Load(data []byte) (IOConfig, error) {
	var cfg IOConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return IOConfig{}, xerr.Wrap(xerr.InvalidParams, "parsing IOConfig", err)
	}
	if cfg.StreamBlockLen < 0 {
		return IOConfig{}, xerr.New(xerr.InvalidParams, "stream_block_len must be >= 0")
	}
	cfg.StreamBlockLen = resolveBlockLen(cfg.StreamBlockLen)
	return cfg, nil
}

// resolveBlockLen implements the fallback chain: explicit value, then
// envBlockLen, then defaultStreamBlockLen.
func resolveBlockLen(explicit int) int {
	if explicit > 0 {
		return explicit
	}
	if v := os.Getenv(envBlockLen); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultStreamBlockLen
}
