package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

func TestSettingsCmd_ShowDefaults(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "ocr.engine")
	assert.Contains(t, out, "http://localhost:3000/api/ocr")
	assert.Contains(t, out, "abort")
	assert.Contains(t, out, "(not set)")
}

func TestSettingsCmd_SetThenGet(t *testing.T) {
	setupTestServices(t)

	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"batch.failure_mode", "isolate", "isolate\n"},
		{"ocr.languages", "eng, fra", "eng,fra\n"},
		{"ocr.timeout_seconds", "30", "30\n"},
		{"ocr.rate_per_second", "2.5", "2.5\n"},
		{"server.addr", "0.0.0.0:8080", "0.0.0.0:8080\n"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			out, err := run(t, "settings", "set", tt.key, tt.value)
			require.NoError(t, err)
			assert.Contains(t, out, tt.key+" updated")

			out, err = run(t, "settings", "get", tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSettingsCmd_UnknownKey(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "settings", "get", "ocr.colour")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = run(t, "settings", "set", "ocr.colour", "red")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsCmd_InvalidNumber(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "settings", "set", "ocr.timeout_seconds", "soon")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
