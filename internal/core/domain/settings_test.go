package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOCREngineKind_IsValid(t *testing.T) {
	tests := []struct {
		kind OCREngineKind
		want bool
	}{
		{OCREngineHTTP, true},
		{OCREngineTesseract, true},
		{"cloud", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValid())
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, OCREngineHTTP, s.OCR.Engine)
	assert.Equal(t, "http://localhost:3000/api/ocr", s.OCR.URL)
	assert.Equal(t, 120, s.OCR.TimeoutSeconds)
	assert.Zero(t, s.OCR.RatePerSecond)
	assert.Equal(t, []string{"eng"}, s.OCR.Languages)
	assert.Equal(t, FailureModeAbort, s.Batch.FailureMode)
	assert.Empty(t, s.Tagging.Gazetteer)
	assert.Empty(t, s.Storage.DataDir)
	assert.Equal(t, "localhost:3000", s.Server.Addr)
}
