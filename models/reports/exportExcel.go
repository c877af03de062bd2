package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jxmls/pano-daily-checks-sub000/models"
	"github.com/xuri/excelize/v2"
)

var exportHeadings = []string{"Date", "Submitted", "Missing Modules", "Acknowledged", "Note"}

// exportRow maps one DayAggregate to the export column contract:
// date, submitted, missing modules joined by "; ", acknowledged yes/no, note.
func exportRow(agg *models.DayAggregate) []string {
	missing := make([]string, 0, len(agg.MissingModules))
	for _, m := range agg.MissingModules {
		missing = append(missing, string(m))
	}
	acknowledged := "no"
	if agg.Acknowledged {
		acknowledged = "yes"
	}
	return []string{
		agg.DateKey,
		strconv.Itoa(agg.SubmittedCount),
		strings.Join(missing, "; "),
		acknowledged,
		agg.Note,
	}
}

// ExportExcel writes the compliance summary as an xlsx workbook.
func ExportExcel(w io.Writer, summary *models.ComplianceSummary) error {

	f := excelize.NewFile()
	sheetName := "Sheet1"
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Add headers
	col := 'A'
	for _, h := range exportHeadings {
		f.SetCellValue(sheetName, fmt.Sprintf("%c1", col), h)
		col++
	}

	// Add data
	for i, agg := range summary.Summaries {
		col = 'A'
		for _, v := range exportRow(agg) {
			f.SetCellValue(sheetName, fmt.Sprintf("%c%d", col, i+2), v)
			col++
		}
	}

	summaryRow := len(summary.Summaries) + 3
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Pass rate")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("%d%%", summary.PassRate))
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", summaryRow),
		fmt.Sprintf("%d passed / %d failed", summary.PassDays, summary.FailDays))

	return f.Write(w)
}

// ExportCSV writes the compliance summary as CSV with the same columns.
func ExportCSV(w io.Writer, summary *models.ComplianceSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeadings); err != nil {
		return err
	}
	for _, agg := range summary.Summaries {
		if err := cw.Write(exportRow(agg)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
