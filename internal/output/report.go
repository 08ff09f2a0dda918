package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rpgo/iit-withholding/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseName is the file name, without extension, used when ReportOptions leaves it empty.
const DefaultBaseName = "withholding_schedule"

// ReportOptions control where and how report files are written.
type ReportOptions struct {
	Dir      string
	BaseName string
	Locale   string
}

func (o ReportOptions) path(ext string) string {
	base := o.BaseName
	if base == "" {
		base = DefaultBaseName
	}
	return filepath.Join(o.Dir, base+"."+ext)
}

// WriteFormatted formats the schedule and writes it to <dir>/<basename>.<ext>, returning the path.
func WriteFormatted(f Formatter, schedule *domain.Schedule, opts ReportOptions) (string, error) {
	data, err := f.Format(schedule)
	if err != nil {
		return "", fmt.Errorf("format %s: %w", f.Name(), err)
	}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}
	filename := opts.path(f.Extension())
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return filename, nil
}

// GenerateReport writes the schedule in a single named format.
func GenerateReport(schedule *domain.Schedule, format string, opts ReportOptions) (string, error) {
	f, err := GetFormatterByName(format, opts.Locale)
	if err != nil {
		return "", err
	}
	return WriteFormatted(f, schedule, opts)
}

// Render writes the schedule in the named format to w.
func Render(w io.Writer, schedule *domain.Schedule, format, locale string) error {
	f, err := GetFormatterByName(format, locale)
	if err != nil {
		return err
	}
	data, err := f.Format(schedule)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// ResolveFormatters looks up every name with labels for locale and drops duplicates, keeping the
// first occurrence. It fails on the first unknown name.
func ResolveFormatters(names []string, locale string) ([]Formatter, error) {
	formatters := make([]Formatter, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		f, err := GetFormatterByName(name, locale)
		if err != nil {
			return nil, err
		}
		if seen[f.Name()] {
			continue
		}
		seen[f.Name()] = true
		formatters = append(formatters, f)
	}
	return formatters, nil
}

// WriteAll writes every format to its own file concurrently. All formats are resolved before
// anything is written, so an unknown name produces no files. Paths are returned in input order.
func WriteAll(ctx context.Context, schedule *domain.Schedule, formats []string, opts ReportOptions) ([]string, error) {
	formatters, err := ResolveFormatters(formats, opts.Locale)
	if err != nil {
		return nil, err
	}
	return WriteFormatters(ctx, schedule, formatters, opts)
}

// WriteFormatters writes one file per formatter concurrently. If any write fails the files
// already written are removed.
func WriteFormatters(ctx context.Context, schedule *domain.Schedule, formatters []Formatter, opts ReportOptions) ([]string, error) {
	paths := make([]string, len(formatters))
	group, gctx := errgroup.WithContext(ctx)
	for i, f := range formatters {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := WriteFormatted(f, schedule, opts)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		RemoveReports(paths)
		return nil, err
	}
	return paths, nil
}

// RemoveReports deletes the given report files, skipping empty paths. Errors are ignored.
func RemoveReports(paths []string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
