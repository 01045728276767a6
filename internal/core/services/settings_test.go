package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), *settings)
}

func TestSettingsService_Get_NilStore(t *testing.T) {
	settings, err := NewSettingsService(nil).Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"extraction.conversion_timeout": int64(45),
		"extraction.pdftotext_path":     "/opt/poppler/bin/pdftotext",
		"extraction.validate":           true,
		"batch.workers":                 int64(8),
		"batch.rate":                    2.5,
		"repair.steps":                  []any{"fixups", "month-sanitize"},
		"repair.fixups_file":            "/etc/fatura/fixups.toml",
		"repair.default_fixups":         false,
		"log.format":                    "json",
	})

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, settings.Extraction.ConversionTimeout)
	assert.Equal(t, "/opt/poppler/bin/pdftotext", settings.Extraction.PdftotextPath)
	assert.True(t, settings.Extraction.Validate)
	assert.Equal(t, 8, settings.Batch.Workers)
	assert.InDelta(t, 2.5, settings.Batch.Rate, 0.0001)
	assert.Equal(t, []string{"fixups", "month-sanitize"}, settings.Repair.Steps)
	assert.Equal(t, "/etc/fatura/fixups.toml", settings.Repair.FixupsFile)
	assert.False(t, settings.Repair.DefaultFixups)
	assert.Equal(t, domain.LogFormatJSON, settings.LogFormat)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"log.format":                    "xml",
		"extraction.conversion_timeout": int64(-5),
	})

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.LogFormatText, settings.LogFormat)
	assert.Equal(t, domain.DefaultConversionTimeout, settings.Extraction.ConversionTimeout)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	want := domain.DefaultSettings()
	want.Extraction.ConversionTimeout = 10 * time.Second
	want.Extraction.Validate = true
	want.Batch.Workers = 2
	want.Batch.Rate = 1
	want.Repair.Steps = []string{"fixups"}
	want.Repair.DefaultFixups = false
	want.LogFormat = domain.LogFormatJSON

	require.NoError(t, service.Save(&want))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestSettingsService_Save_Nil(t *testing.T) {
	err := NewSettingsService(memory.NewConfigStore()).Save(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key     string
		raw     string
		want    any
		wantErr bool
	}{
		{key: "batch.workers", raw: "6", want: int64(6)},
		{key: "batch.workers", raw: "-1", wantErr: true},
		{key: "batch.workers", raw: "many", wantErr: true},
		{key: "batch.rate", raw: "0.5", want: 0.5},
		{key: "extraction.validate", raw: "true", want: true},
		{key: "extraction.validate", raw: "maybe", wantErr: true},
		{key: "repair.steps", raw: "fixups, month-sanitize,", want: []string{"fixups", "month-sanitize"}},
		{key: "repair.fixups_file", raw: "/tmp/f.yaml", want: "/tmp/f.yaml"},
		{key: "log.format", raw: "json", want: "json"},
		{key: "log.format", raw: "xml", wantErr: true},
		{key: "search.mode", raw: "hybrid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.raw, func(t *testing.T) {
			store := memory.NewConfigStore()
			err := NewSettingsService(store).Set(tt.key, tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				_, exists := store.Get(tt.key)
				assert.False(t, exists)
				return
			}
			require.NoError(t, err)
			got, _ := store.Get(tt.key)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(nil).Keys()
	assert.Contains(t, keys, "batch.workers")
	assert.Contains(t, keys, "repair.fixups_file")
	assert.IsIncreasing(t, keys)
}

func TestSettingsService_Validate(t *testing.T) {
	assert.NoError(t, NewSettingsService(memory.NewConfigStore()).Validate())

	store := memory.NewConfigStore(map[string]any{"log.format": "xml"})
	assert.ErrorIs(t, NewSettingsService(store).Validate(), domain.ErrInvalidInput)

	store = memory.NewConfigStore(map[string]any{"batch.rate": -1.0})
	assert.ErrorIs(t, NewSettingsService(store).Validate(), domain.ErrInvalidInput)
}

func TestLoadSettings(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{"batch.workers": 3})
	assert.Equal(t, 3, LoadSettings(store).Batch.Workers)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	assert.Equal(t, domain.DefaultSettings(), NewSettingsService(nil).GetDefaults())
}
