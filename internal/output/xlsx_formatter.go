package output

import (
	"fmt"

	"github.com/rpgo/iit-withholding/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	// ScheduleSheet holds one row per month.
	ScheduleSheet = "Withholding"
	// SummarySheet holds one row per calendar year.
	SummarySheet = "Summary"

	numFmtTwoDecimals = 2 // built-in "0.00"
)

// XLSXFormatter writes the schedule as a spreadsheet with the same columns as the CSV output.
type XLSXFormatter struct {
	Labels Labels
}

func (x XLSXFormatter) Name() string      { return "xlsx" }
func (x XLSXFormatter) Extension() string { return "xlsx" }

func (x XLSXFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	labels := x.Labels
	if labels == (Labels{}) {
		labels = localeLabels["en"]
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ScheduleSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	for i, label := range labels {
		if err := setCell(f, ScheduleSheet, i+1, 1, label); err != nil {
			return nil, err
		}
	}
	for i, r := range schedule.Records {
		row := i + 2
		if err := setCell(f, ScheduleSheet, 1, row, r.Month.String()); err != nil {
			return nil, err
		}
		for j, a := range amounts(r) {
			cell, err := excelize.CoordinatesToCellName(j+2, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellFloat(ScheduleSheet, cell, a.InexactFloat64(), 2, 64); err != nil {
				return nil, fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}
	if len(schedule.Records) > 0 {
		last, err := excelize.CoordinatesToCellName(len(labels), len(schedule.Records)+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(ScheduleSheet, "B2", last, amountStyle); err != nil {
			return nil, fmt.Errorf("style amounts: %w", err)
		}
	}
	if err := f.SetColWidth(ScheduleSheet, "A", "G", 18); err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, schedule, amountStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, schedule *domain.Schedule, amountStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	for i, h := range []string{"Year", "Months", "Income", "Insurance & Housing Fund", "Tax"} {
		if err := setCell(f, SummarySheet, i+1, 1, h); err != nil {
			return err
		}
	}
	for i, y := range schedule.Years {
		row := i + 2
		values := []any{y.Year, y.Months, y.Income.InexactFloat64(), y.Deduction.InexactFloat64(), y.Tax.InexactFloat64()}
		for j, v := range values {
			if err := setCell(f, SummarySheet, j+1, row, v); err != nil {
				return err
			}
		}
	}
	if len(schedule.Years) > 0 {
		last, err := excelize.CoordinatesToCellName(5, len(schedule.Years)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, "C2", last, amountStyle); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
