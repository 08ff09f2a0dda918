package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/rpgo/iit-withholding/internal/calculation"
	"github.com/rpgo/iit-withholding/internal/domain"
	"github.com/rpgo/iit-withholding/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingField is returned when a required configuration field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField is returned when a configuration field holds an unusable value.
	ErrInvalidField = errors.New("invalid field")
)

//go:embed example_config.yaml
var exampleYAML []byte

// Document mirrors the YAML settings file. Pointer fields are required; a nil pointer means the
// key was absent.
type Document struct {
	StartDate          string                     `yaml:"start_date"`
	EndDate            string                     `yaml:"end_date"`
	MonthlySalary      *decimal.Decimal           `yaml:"monthly_salary"`
	SalaryAdjustments  []AdjustmentEntry          `yaml:"salary_adjustments,omitempty"`
	LeaveDays          map[string]decimal.Decimal `yaml:"leave_days,omitempty"`
	InsuranceRates     *InsuranceRatesEntry       `yaml:"insurance_rates"`
	HousingFundRate    *decimal.Decimal           `yaml:"housing_fund_rate"`
	InitialAccumulated *InitialAccumulatedEntry   `yaml:"initial_accumulated"`
}

// AdjustmentEntry is one item of salary_adjustments.
type AdjustmentEntry struct {
	Date      string           `yaml:"date"`
	NewSalary *decimal.Decimal `yaml:"new_salary"`
}

// InsuranceRatesEntry is the insurance_rates block.
type InsuranceRatesEntry struct {
	Pension      *decimal.Decimal `yaml:"pension"`
	Unemployment *decimal.Decimal `yaml:"unemployment"`
	Medical      *decimal.Decimal `yaml:"medical"`
}

// InitialAccumulatedEntry is the initial_accumulated block.
type InitialAccumulatedEntry struct {
	Income           *decimal.Decimal `yaml:"income"`
	SpecialDeduction *decimal.Decimal `yaml:"special_deduction"`
	TaxPaid          *decimal.Decimal `yaml:"tax_paid"`
}

// InputParser handles parsing of settings files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads settings from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Settings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, validates and converts a YAML settings document.
func (ip *InputParser) Parse(data []byte) (*domain.Settings, error) {
	doc, err := ip.Decode(data)
	if err != nil {
		return nil, err
	}
	settings, err := ip.ToSettings(doc)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

// Decode parses YAML into a Document without validating it.
func (ip *InputParser) Decode(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &doc, nil
}

// ValidateDocument checks that every required field is present.
func (ip *InputParser) ValidateDocument(doc *Document) error {
	if doc.StartDate == "" {
		return fmt.Errorf("%w: start_date", ErrMissingField)
	}
	if doc.EndDate == "" {
		return fmt.Errorf("%w: end_date", ErrMissingField)
	}
	if doc.MonthlySalary == nil {
		return fmt.Errorf("%w: monthly_salary", ErrMissingField)
	}
	if doc.InsuranceRates == nil {
		return fmt.Errorf("%w: insurance_rates", ErrMissingField)
	}
	if err := requireAll("insurance_rates", map[string]*decimal.Decimal{
		"pension":      doc.InsuranceRates.Pension,
		"unemployment": doc.InsuranceRates.Unemployment,
		"medical":      doc.InsuranceRates.Medical,
	}); err != nil {
		return err
	}
	if doc.HousingFundRate == nil {
		return fmt.Errorf("%w: housing_fund_rate", ErrMissingField)
	}
	if doc.InitialAccumulated == nil {
		return fmt.Errorf("%w: initial_accumulated", ErrMissingField)
	}
	if err := requireAll("initial_accumulated", map[string]*decimal.Decimal{
		"income":            doc.InitialAccumulated.Income,
		"special_deduction": doc.InitialAccumulated.SpecialDeduction,
		"tax_paid":          doc.InitialAccumulated.TaxPaid,
	}); err != nil {
		return err
	}
	for i, a := range doc.SalaryAdjustments {
		if a.Date == "" {
			return fmt.Errorf("%w: salary_adjustments[%d].date", ErrMissingField, i)
		}
		if a.NewSalary == nil {
			return fmt.Errorf("%w: salary_adjustments[%d].new_salary", ErrMissingField, i)
		}
	}
	return nil
}

func requireAll(block string, fields map[string]*decimal.Decimal) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if fields[name] == nil {
			return fmt.Errorf("%w: %s.%s", ErrMissingField, block, name)
		}
	}
	return nil
}

// ToSettings validates doc and converts it into calculation input.
func (ip *InputParser) ToSettings(doc *Document) (*domain.Settings, error) {
	if err := ip.ValidateDocument(doc); err != nil {
		return nil, err
	}

	start, err := dateutil.ParseYearMonth(doc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	end, err := dateutil.ParseYearMonth(doc.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}

	settings := &domain.Settings{
		Start:         start,
		End:           end,
		MonthlySalary: *doc.MonthlySalary,
		Insurance: domain.InsuranceRates{
			Pension:      *doc.InsuranceRates.Pension,
			Unemployment: *doc.InsuranceRates.Unemployment,
			Medical:      *doc.InsuranceRates.Medical,
		},
		HousingFundRate: *doc.HousingFundRate,
		Initial: domain.InitialAccumulated{
			Income:           *doc.InitialAccumulated.Income,
			SpecialDeduction: *doc.InitialAccumulated.SpecialDeduction,
			TaxPaid:          *doc.InitialAccumulated.TaxPaid,
		},
		WorkedDays: make(map[dateutil.YearMonth]decimal.Decimal, len(doc.LeaveDays)),
	}

	for i, a := range doc.SalaryAdjustments {
		effective, err := dateutil.ParseYearMonth(a.Date)
		if err != nil {
			return nil, fmt.Errorf("salary_adjustments[%d].date: %w", i, err)
		}
		settings.Adjustments = append(settings.Adjustments, domain.SalaryAdjustment{
			Effective: effective,
			NewSalary: *a.NewSalary,
		})
	}

	for label, days := range doc.LeaveDays {
		month, err := dateutil.ParseYearMonth(label)
		if err != nil {
			return nil, fmt.Errorf("leave_days[%s]: %w", label, err)
		}
		if _, dup := settings.WorkedDays[month]; dup {
			return nil, fmt.Errorf("%w: leave_days has %s twice", ErrInvalidField, month)
		}
		settings.WorkedDays[month] = days
	}

	if err := ip.validateAmounts(settings); err != nil {
		return nil, err
	}
	if err := calculation.ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// validateAmounts checks rates and seed amounts
func (ip *InputParser) validateAmounts(s *domain.Settings) error {
	rates := []struct {
		name string
		v    decimal.Decimal
	}{
		{"insurance_rates.pension", s.Insurance.Pension},
		{"insurance_rates.unemployment", s.Insurance.Unemployment},
		{"insurance_rates.medical", s.Insurance.Medical},
		{"housing_fund_rate", s.HousingFundRate},
	}
	for _, r := range rates {
		if r.v.IsNegative() || r.v.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: %s must be between 0 and 1, got %s", ErrInvalidField, r.name, r.v)
		}
	}
	if s.DeductionRate().GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: insurance and housing fund rates add up to more than 100%%", ErrInvalidField)
	}

	if s.Initial.Income.IsNegative() {
		return fmt.Errorf("%w: initial_accumulated.income cannot be negative", ErrInvalidField)
	}
	if s.Initial.SpecialDeduction.IsNegative() {
		return fmt.Errorf("%w: initial_accumulated.special_deduction cannot be negative", ErrInvalidField)
	}
	if s.Initial.TaxPaid.IsNegative() {
		return fmt.Errorf("%w: initial_accumulated.tax_paid cannot be negative", ErrInvalidField)
	}
	return nil
}

// ExampleYAML returns the annotated example settings file.
func ExampleYAML() []byte {
	out := make([]byte, len(exampleYAML))
	copy(out, exampleYAML)
	return out
}

// CreateExampleSettings parses the bundled example.
func (ip *InputParser) CreateExampleSettings() (*domain.Settings, error) {
	return ip.Parse(exampleYAML)
}

// ErrFileExists is returned by WriteExample when the target exists and overwrite is false.
var ErrFileExists = errors.New("file already exists")

// WriteExample writes the example settings file to filename.
func WriteExample(filename string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(filename); err == nil {
			return fmt.Errorf("%w: %s", ErrFileExists, filename)
		}
	}
	return os.WriteFile(filename, exampleYAML, 0o644)
}

// SaveDocument serializes doc as YAML to filename.
func SaveDocument(doc *Document, filename string) error {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o644)
}
