package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
	"github.com/custodia-labs/docscan/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyOCREngine    = "ocr.engine"
	keyOCRURL       = "ocr.url"
	keyOCRTimeout   = "ocr.timeout_seconds"
	keyOCRRate      = "ocr.rate_per_second"
	keyOCRLanguages = "ocr.languages"
	keyFailureMode  = "batch.failure_mode"
	keyGazetteer    = "tagging.gazetteer"
	keyDataDir      = "storage.data_dir"
	keyServerAddr   = "server.addr"
)

// SettingKeys lists every key accepted by Set.
func SettingKeys() []string {
	return []string{
		keyOCREngine, keyOCRURL, keyOCRTimeout, keyOCRRate, keyOCRLanguages,
		keyFailureMode, keyGazetteer, keyDataDir, keyServerAddr,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.SettingsValidator
}

// NewSettingsService creates a new settings service.
// The validator is optional.
func NewSettingsService(configStore driven.ConfigStore, validator driven.SettingsValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
	}
}

// Get retrieves current application settings, filling unset keys with defaults.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := s.read()
	if err := s.validate(settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// Set updates a single key. The change is rejected if the resulting settings are invalid.
func (s *SettingsService) Set(key, value string) error {
	settings := s.read()
	var stored any = value

	switch key {
	case keyOCREngine:
		settings.OCR.Engine = domain.OCREngineKind(value)
	case keyOCRURL:
		settings.OCR.URL = value
	case keyOCRTimeout:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.OCR.TimeoutSeconds = n
		stored = n
	case keyOCRRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.OCR.RatePerSecond = f
		stored = f
	case keyOCRLanguages:
		langs := splitList(value)
		settings.OCR.Languages = langs
		stored = langs
	case keyFailureMode:
		settings.Batch.FailureMode = domain.FailureMode(value)
	case keyGazetteer:
		settings.Tagging.Gazetteer = value
	case keyDataDir:
		settings.Storage.DataDir = value
	case keyServerAddr:
		settings.Server.Addr = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.validate(settings); err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) read() domain.Settings {
	d := domain.DefaultSettings()
	return domain.Settings{
		OCR: domain.OCRSettings{
			Engine:         domain.OCREngineKind(s.getString(keyOCREngine, string(d.OCR.Engine))),
			URL:            s.getString(keyOCRURL, d.OCR.URL),
			TimeoutSeconds: s.getInt(keyOCRTimeout, d.OCR.TimeoutSeconds),
			RatePerSecond:  s.getFloat(keyOCRRate, d.OCR.RatePerSecond),
			Languages:      s.getStringSlice(keyOCRLanguages, d.OCR.Languages),
		},
		Batch: domain.BatchSettings{
			FailureMode: domain.FailureMode(s.getString(keyFailureMode, string(d.Batch.FailureMode))),
		},
		Tagging: domain.TaggingSettings{
			Gazetteer: s.configStore.GetString(keyGazetteer),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyDataDir),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, d.Server.Addr),
		},
	}
}

func (s *SettingsService) validate(settings domain.Settings) error {
	if s.validator == nil {
		return nil
	}
	if err := s.validator.Validate(settings); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getStringSlice(key string, def []string) []string {
	if v := s.configStore.GetStringSlice(key); len(v) > 0 {
		return v
	}
	return def
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
