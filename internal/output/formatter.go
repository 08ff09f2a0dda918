package output

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rpgo/iit-withholding/internal/domain"
)

// ErrUnsupportedFormat is returned when a format name matches no registered formatter.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(schedule *domain.Schedule) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
	// Extension is the file extension used when the output is written to disk.
	Extension() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID  string
	Ext string
	F   func(*domain.Schedule) ([]byte, error)
}

func (ff FormatterFunc) Format(s *domain.Schedule) ([]byte, error) { return ff.F(s) }
func (ff FormatterFunc) Name() string                              { return ff.ID }
func (ff FormatterFunc) Extension() string                         { return ff.Ext }

// builtInFormatters stores constructors of the available formatters keyed by canonical name.
var builtInFormatters = map[string]func(Labels) Formatter{
	"console":  func(l Labels) Formatter { return ConsoleFormatter{Labels: l} },
	"csv":      func(l Labels) Formatter { return CSVFormatter{Labels: l} },
	"detailed": func(Labels) Formatter { return ConsoleVerboseFormatter{} },
	"html":     func(l Labels) Formatter { return HTMLFormatter{Labels: l} },
	"json":     func(Labels) Formatter { return JSONFormatter{} },
	"xlsx":     func(l Labels) Formatter { return XLSXFormatter{Labels: l} },
}

// GetFormatterByName fetches a registered formatter with column labels for locale.
func GetFormatterByName(name, locale string) (Formatter, error) {
	labels, err := LabelsFor(locale)
	if err != nil {
		return nil, err
	}
	build, ok := builtInFormatters[NormalizeFormatName(name)]
	if !ok {
		return nil, unsupported(name)
	}
	return build(labels), nil
}

func unsupported(name string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"table":           "console",
	"text":            "console",
	"txt":             "console",
	"verbose":         "detailed",
	"console-verbose": "detailed",
	"htm":             "html",
	"excel":           "xlsx",
	"json-pretty":     "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for name := range builtInFormatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
