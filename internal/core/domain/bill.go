package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// BillRecord is the structured result of reading one electricity bill.
// Every field is optional: extraction is best-effort, and a field nobody
// could find keeps its zero value.
type BillRecord struct {
	// Identity.
	ClientNumber       string
	InstallationNumber string
	ClientName         string

	// Period. ReferenceMonth is a canonical Portuguese month name or empty.
	ReferenceMonth string
	ReferenceYear  int

	// Consumption and billing figures.
	EnergyElectricKwh      decimal.Decimal
	EnergyElectricValue    decimal.Decimal
	EnergySCEEEKwh         decimal.Decimal
	EnergySCEEEValue       decimal.Decimal
	EnergyCompensatedKwh   decimal.Decimal
	EnergyCompensatedValue decimal.Decimal // negative: it is a credit
	PublicLightingValue    decimal.Decimal
	TotalValue             decimal.Decimal

	// Dates in dd/mm/yyyy or dd/mm form.
	EmissionDate        string
	DueDate             string
	CurrentReadingDate  string
	PreviousReadingDate string
	NextReadingDate     string
}

// Field names a single BillRecord field. The string form is the field's
// JSON name.
type Field string

// Record fields.
const (
	FieldClientNumber           Field = "clientNumber"
	FieldInstallationNumber     Field = "installationNumber"
	FieldClientName             Field = "clientName"
	FieldReferenceMonth         Field = "referenceMonth"
	FieldReferenceYear          Field = "referenceYear"
	FieldEnergyElectricKwh      Field = "energyElectricKwh"
	FieldEnergyElectricValue    Field = "energyElectricValue"
	FieldEnergySCEEEKwh         Field = "energySCEEEKwh"
	FieldEnergySCEEEValue       Field = "energySCEEEValue"
	FieldEnergyCompensatedKwh   Field = "energyCompensatedKwh"
	FieldEnergyCompensatedValue Field = "energyCompensatedValue"
	FieldPublicLightingValue    Field = "publicLightingValue"
	FieldTotalValue             Field = "totalValue"
	FieldEmissionDate           Field = "emissionDate"
	FieldDueDate                Field = "dueDate"
	FieldCurrentReadingDate     Field = "currentReadingDate"
	FieldPreviousReadingDate    Field = "previousReadingDate"
	FieldNextReadingDate        Field = "nextReadingDate"
)

var allFields = []Field{
	FieldClientNumber,
	FieldInstallationNumber,
	FieldClientName,
	FieldReferenceMonth,
	FieldReferenceYear,
	FieldEnergyElectricKwh,
	FieldEnergyElectricValue,
	FieldEnergySCEEEKwh,
	FieldEnergySCEEEValue,
	FieldEnergyCompensatedKwh,
	FieldEnergyCompensatedValue,
	FieldPublicLightingValue,
	FieldTotalValue,
	FieldEmissionDate,
	FieldDueDate,
	FieldCurrentReadingDate,
	FieldPreviousReadingDate,
	FieldNextReadingDate,
}

// Fields returns every record field in output order.
func Fields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// IsValid returns true if the field belongs to BillRecord.
func (f Field) IsValid() bool {
	for _, known := range allFields {
		if f == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (f Field) String() string {
	return string(f)
}

// IsNumeric returns true for the decimal-valued fields.
func (f Field) IsNumeric() bool {
	_, ok := (&BillRecord{}).decimalField(f)
	return ok
}

func (r *BillRecord) stringField(f Field) (*string, bool) {
	switch f {
	case FieldClientNumber:
		return &r.ClientNumber, true
	case FieldInstallationNumber:
		return &r.InstallationNumber, true
	case FieldClientName:
		return &r.ClientName, true
	case FieldReferenceMonth:
		return &r.ReferenceMonth, true
	case FieldEmissionDate:
		return &r.EmissionDate, true
	case FieldDueDate:
		return &r.DueDate, true
	case FieldCurrentReadingDate:
		return &r.CurrentReadingDate, true
	case FieldPreviousReadingDate:
		return &r.PreviousReadingDate, true
	case FieldNextReadingDate:
		return &r.NextReadingDate, true
	default:
		return nil, false
	}
}

func (r *BillRecord) decimalField(f Field) (*decimal.Decimal, bool) {
	switch f {
	case FieldEnergyElectricKwh:
		return &r.EnergyElectricKwh, true
	case FieldEnergyElectricValue:
		return &r.EnergyElectricValue, true
	case FieldEnergySCEEEKwh:
		return &r.EnergySCEEEKwh, true
	case FieldEnergySCEEEValue:
		return &r.EnergySCEEEValue, true
	case FieldEnergyCompensatedKwh:
		return &r.EnergyCompensatedKwh, true
	case FieldEnergyCompensatedValue:
		return &r.EnergyCompensatedValue, true
	case FieldPublicLightingValue:
		return &r.PublicLightingValue, true
	case FieldTotalValue:
		return &r.TotalValue, true
	default:
		return nil, false
	}
}

// IsEmpty reports whether the field still holds its zero value.
// Unknown fields are reported as empty.
func (r *BillRecord) IsEmpty(f Field) bool {
	if s, ok := r.stringField(f); ok {
		return *s == ""
	}
	if d, ok := r.decimalField(f); ok {
		return d.IsZero()
	}
	if f == FieldReferenceYear {
		return r.ReferenceYear == 0
	}
	return true
}

// Get returns the textual form of a field, the same form Set accepts.
func (r *BillRecord) Get(f Field) (string, error) {
	if s, ok := r.stringField(f); ok {
		return *s, nil
	}
	if d, ok := r.decimalField(f); ok {
		return d.String(), nil
	}
	if f == FieldReferenceYear {
		return strconv.Itoa(r.ReferenceYear), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, f)
}

// Set assigns a field from its textual form. Numeric values may use either
// a decimal point ("189.13") or a Brazilian decimal comma ("189,13").
func (r *BillRecord) Set(f Field, value string) error {
	if s, ok := r.stringField(f); ok {
		*s = strings.TrimSpace(value)
		return nil
	}
	if d, ok := r.decimalField(f); ok {
		v, err := decimal.NewFromString(canonicalNumber(value))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidInput, f, value)
		}
		*d = v
		return nil
	}
	if f == FieldReferenceYear {
		year, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || year < 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidInput, f, value)
		}
		r.ReferenceYear = year
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, f)
}

func canonicalNumber(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}

// billRecordJSON is the wire form. Decimals travel as JSON numbers.
type billRecordJSON struct {
	ClientNumber           string      `json:"clientNumber"`
	InstallationNumber     string      `json:"installationNumber"`
	ClientName             string      `json:"clientName"`
	ReferenceMonth         string      `json:"referenceMonth"`
	ReferenceYear          int         `json:"referenceYear"`
	EnergyElectricKwh      json.Number `json:"energyElectricKwh"`
	EnergyElectricValue    json.Number `json:"energyElectricValue"`
	EnergySCEEEKwh         json.Number `json:"energySCEEEKwh"`
	EnergySCEEEValue       json.Number `json:"energySCEEEValue"`
	EnergyCompensatedKwh   json.Number `json:"energyCompensatedKwh"`
	EnergyCompensatedValue json.Number `json:"energyCompensatedValue"`
	PublicLightingValue    json.Number `json:"publicLightingValue"`
	TotalValue             json.Number `json:"totalValue"`
	EmissionDate           string      `json:"emissionDate"`
	DueDate                string      `json:"dueDate"`
	CurrentReadingDate     string      `json:"currentReadingDate"`
	PreviousReadingDate    string      `json:"previousReadingDate"`
	NextReadingDate        string      `json:"nextReadingDate"`
}

// MarshalJSON encodes the record with camelCase keys and numeric values.
func (r BillRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(billRecordJSON{
		ClientNumber:           r.ClientNumber,
		InstallationNumber:     r.InstallationNumber,
		ClientName:             r.ClientName,
		ReferenceMonth:         r.ReferenceMonth,
		ReferenceYear:          r.ReferenceYear,
		EnergyElectricKwh:      json.Number(r.EnergyElectricKwh.String()),
		EnergyElectricValue:    json.Number(r.EnergyElectricValue.String()),
		EnergySCEEEKwh:         json.Number(r.EnergySCEEEKwh.String()),
		EnergySCEEEValue:       json.Number(r.EnergySCEEEValue.String()),
		EnergyCompensatedKwh:   json.Number(r.EnergyCompensatedKwh.String()),
		EnergyCompensatedValue: json.Number(r.EnergyCompensatedValue.String()),
		PublicLightingValue:    json.Number(r.PublicLightingValue.String()),
		TotalValue:             json.Number(r.TotalValue.String()),
		EmissionDate:           r.EmissionDate,
		DueDate:                r.DueDate,
		CurrentReadingDate:     r.CurrentReadingDate,
		PreviousReadingDate:    r.PreviousReadingDate,
		NextReadingDate:        r.NextReadingDate,
	})
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (r *BillRecord) UnmarshalJSON(data []byte) error {
	var w billRecordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := BillRecord{
		ClientNumber:        w.ClientNumber,
		InstallationNumber:  w.InstallationNumber,
		ClientName:          w.ClientName,
		ReferenceMonth:      w.ReferenceMonth,
		ReferenceYear:       w.ReferenceYear,
		EmissionDate:        w.EmissionDate,
		DueDate:             w.DueDate,
		CurrentReadingDate:  w.CurrentReadingDate,
		PreviousReadingDate: w.PreviousReadingDate,
		NextReadingDate:     w.NextReadingDate,
	}

	numbers := map[Field]json.Number{
		FieldEnergyElectricKwh:      w.EnergyElectricKwh,
		FieldEnergyElectricValue:    w.EnergyElectricValue,
		FieldEnergySCEEEKwh:         w.EnergySCEEEKwh,
		FieldEnergySCEEEValue:       w.EnergySCEEEValue,
		FieldEnergyCompensatedKwh:   w.EnergyCompensatedKwh,
		FieldEnergyCompensatedValue: w.EnergyCompensatedValue,
		FieldPublicLightingValue:    w.PublicLightingValue,
		FieldTotalValue:             w.TotalValue,
	}
	for f, n := range numbers {
		if n == "" {
			continue
		}
		if err := out.Set(f, n.String()); err != nil {
			return err
		}
	}

	*r = out
	return nil
}
