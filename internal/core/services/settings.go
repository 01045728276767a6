package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyConversionTimeout = "extraction.conversion_timeout"
	keyPdftotextPath     = "extraction.pdftotext_path"
	keyValidate          = "extraction.validate"
	keyBatchWorkers      = "batch.workers"
	keyBatchRate         = "batch.rate"
	keyRepairSteps       = "repair.steps"
	keyFixupsFile        = "repair.fixups_file"
	keyDefaultFixups     = "repair.default_fixups"
	keyLogFormat         = "log.format"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

var settingKinds = map[string]settingKind{
	keyConversionTimeout: kindInt,
	keyPdftotextPath:     kindString,
	keyValidate:          kindBool,
	keyBatchWorkers:      kindInt,
	keyBatchRate:         kindFloat,
	keyRepairSteps:       kindList,
	keyFixupsFile:        kindString,
	keyDefaultFixups:     kindBool,
	keyLogFormat:         kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// LoadSettings reads typed settings from a config store.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	settings, _ := NewSettingsService(store).Get()
	return *settings
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	timeout := defaults.Extraction.ConversionTimeout
	if secs := s.configStore.GetInt(keyConversionTimeout); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	settings := &domain.Settings{
		Extraction: domain.ExtractionSettings{
			ConversionTimeout: timeout,
			PdftotextPath:     s.configStore.GetString(keyPdftotextPath),
			Validate:          s.getBool(keyValidate, defaults.Extraction.Validate),
		},
		Batch: domain.BatchSettings{
			Workers: s.getInt(keyBatchWorkers, defaults.Batch.Workers),
			Rate:    s.configStore.GetFloat(keyBatchRate),
		},
		Repair: domain.RepairSettings{
			Steps:         s.configStore.GetStringSlice(keyRepairSteps),
			FixupsFile:    s.configStore.GetString(keyFixupsFile),
			DefaultFixups: s.getBool(keyDefaultFixups, defaults.Repair.DefaultFixups),
		},
		LogFormat: s.getLogFormat(defaults.LogFormat),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}

	values := []struct {
		key   string
		value any
	}{
		{keyConversionTimeout, int64(settings.Extraction.ConversionTimeout / time.Second)},
		{keyPdftotextPath, settings.Extraction.PdftotextPath},
		{keyValidate, settings.Extraction.Validate},
		{keyBatchWorkers, int64(settings.Batch.Workers)},
		{keyBatchRate, settings.Batch.Rate},
		{keyRepairSteps, settings.Repair.Steps},
		{keyFixupsFile, settings.Repair.FixupsFile},
		{keyDefaultFixups, settings.Repair.DefaultFixups},
		{keyLogFormat, string(settings.LogFormat)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses raw according to the key's type and persists it.
func (s *SettingsService) Set(key, raw string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var value any
	switch kind {
	case kindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		value = n
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		value = f
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		value = b
	case kindList:
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		value = items
	default:
		if key == keyLogFormat && !domain.LogFormat(raw).IsValid() {
			return fmt.Errorf("%w: %s must be text or json", domain.ErrInvalidInput, key)
		}
		value = raw
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the recognised setting keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Validate checks the stored settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if settings.Batch.Workers < 1 {
		return fmt.Errorf("%w: batch.workers must be at least 1", domain.ErrInvalidInput)
	}
	if settings.Batch.Rate < 0 {
		return fmt.Errorf("%w: batch.rate must not be negative", domain.ErrInvalidInput)
	}
	if s.configStore != nil {
		if raw := s.configStore.GetString(keyLogFormat); raw != "" && !domain.LogFormat(raw).IsValid() {
			return fmt.Errorf("%w: unknown log format %q", domain.ErrInvalidInput, raw)
		}
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getLogFormat(defaultVal domain.LogFormat) domain.LogFormat {
	format := domain.LogFormat(s.configStore.GetString(keyLogFormat))
	if !format.IsValid() {
		return defaultVal
	}
	return format
}
