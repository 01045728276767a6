package repair

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestStep_NilRecord(t *testing.T) {
	assert.Nil(t, ClientFromInstallation().Process(nil, nil))
}

func TestClientFromInstallation(t *testing.T) {
	tests := []struct {
		name    string
		rec     domain.BillRecord
		want    string
		changed bool
	}{
		{name: "copies", rec: domain.BillRecord{InstallationNumber: "3001422762"}, want: "3001422762", changed: true},
		{name: "keeps client", rec: domain.BillRecord{ClientNumber: "1", InstallationNumber: "2"}, want: "1"},
		{name: "nothing to copy", rec: domain.BillRecord{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			changed := ClientFromInstallation().Process(&rec, nil)
			assert.Equal(t, tt.want, rec.ClientNumber)
			assert.Equal(t, tt.changed, len(changed) == 1)
		})
	}
}

func TestTotalFromCurrency(t *testing.T) {
	rec := &domain.BillRecord{}
	changed := TotalFromCurrency().Process(rec, []string{"Juros R$ 45,00", "Total R$ 189,13 e R$: 1,50"})

	assert.True(t, dec("189.13").Equal(rec.TotalValue))
	assert.Equal(t, []domain.Field{domain.FieldTotalValue}, changed)
}

func TestTotalFromCurrency_ThousandsSeparator(t *testing.T) {
	rec := &domain.BillRecord{}
	TotalFromCurrency().Process(rec, []string{"R$ 1.234,56", "R$ 999,99"})

	assert.True(t, dec("1234.56").Equal(rec.TotalValue))
}

func TestTotalFromCurrency_KeepsExisting(t *testing.T) {
	rec := &domain.BillRecord{TotalValue: dec("10")}
	changed := TotalFromCurrency().Process(rec, []string{"R$ 500,00"})

	assert.Empty(t, changed)
	assert.True(t, dec("10").Equal(rec.TotalValue))
}

func TestTotalFromCurrency_NoTokens(t *testing.T) {
	rec := &domain.BillRecord{}
	assert.Empty(t, TotalFromCurrency().Process(rec, []string{"sem valores"}))
	assert.True(t, rec.TotalValue.IsZero())
}

func TestKwhFromUnit(t *testing.T) {
	rec := &domain.BillRecord{}
	changed := KwhFromUnit().Process(rec, []string{"Consumo", "1.960 kWh no mês"})

	assert.True(t, dec("1960").Equal(rec.EnergyElectricKwh))
	assert.Equal(t, []domain.Field{domain.FieldEnergyElectricKwh}, changed)
}

func TestDueDateFirstDate(t *testing.T) {
	rec := &domain.BillRecord{}
	DueDateFirstDate().Process(rec, []string{"Emitida 20/09/2024", "Vence 09/10/2024"})
	assert.Equal(t, "20/09/2024", rec.DueDate)

	rec = &domain.BillRecord{DueDate: "01/01/2024"}
	assert.Empty(t, DueDateFirstDate().Process(rec, []string{"20/09/2024"}))
}

func TestNameUppercase(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "ascii uppercase line",
			lines: []string{"CEMIG DISTRIBUICAO", "Nº DO CLIENTE", "JOSE MESALY FONSECA DE CARVALHO"},
			want:  "JOSE MESALY FONSECA DE CARVALHO",
		},
		{
			name:  "accented uppercase line near the top",
			lines: []string{"JOÃO DA SILVA", "Rua A, 1"},
			want:  "JOÃO DA SILVA",
		},
		{
			name:  "headings are skipped",
			lines: []string{"NOTA FISCAL FATURA", "TOTAL A PAGAR", "Nº DO CLIENTE"},
			want:  "",
		},
		{
			name:  "too short",
			lines: []string{"ANA SOUZA"},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &domain.BillRecord{}
			NameUppercase().Process(rec, tt.lines)
			assert.Equal(t, tt.want, rec.ClientName)
		})
	}
}

func TestConsumptionEstimate(t *testing.T) {
	rec := &domain.BillRecord{TotalValue: dec("189.13")}
	changed := ConsumptionEstimate().Process(rec, nil)

	assert.True(t, dec("126").Equal(rec.EnergyElectricKwh))
	assert.True(t, dec("132.391").Equal(rec.EnergyElectricValue))
	assert.ElementsMatch(t, []domain.Field{domain.FieldEnergyElectricKwh, domain.FieldEnergyElectricValue}, changed)
}

func TestConsumptionEstimate_NeedsTotal(t *testing.T) {
	rec := &domain.BillRecord{}
	assert.Empty(t, ConsumptionEstimate().Process(rec, nil))

	rec = &domain.BillRecord{TotalValue: dec("100"), EnergyElectricKwh: dec("5")}
	assert.Empty(t, ConsumptionEstimate().Process(rec, nil))
}

func TestLightingEstimate(t *testing.T) {
	rec := &domain.BillRecord{TotalValue: dec("189.13")}
	LightingEstimate().Process(rec, nil)
	assert.True(t, dec("18.913").Equal(rec.PublicLightingValue))

	rec = &domain.BillRecord{TotalValue: dec("100"), PublicLightingValue: dec("7")}
	assert.Empty(t, LightingEstimate().Process(rec, nil))
}

func TestMonthSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Janeiro", want: "Janeiro"},
		{in: "SET", want: "Setembro"},
		{in: "marco", want: "Março"},
		{in: "Energia", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rec := &domain.BillRecord{ReferenceMonth: tt.in}
			MonthSanitize().Process(rec, nil)
			assert.Equal(t, tt.want, rec.ReferenceMonth)
		})
	}
}

func TestDefaultOrder_EstimatesLast(t *testing.T) {
	n := len(DefaultOrder)
	assert.Equal(t, StepMonthSanitize, DefaultOrder[n-1])
	assert.Equal(t, StepLightingEstimate, DefaultOrder[n-2])
	assert.Equal(t, StepConsumptionEstimate, DefaultOrder[n-3])
}
