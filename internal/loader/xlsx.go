package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// SheetName is the worksheet written by WriteXLSX. Readers use the first sheet.
const SheetName = "Streams"

// ReadXLSX parses a fact table from the first worksheet of a workbook.
func ReadXLSX(r io.Reader, source string) (*models.FactTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &SchemaError{Source: source, Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Source: source, Reason: "no header row"}
	}

	idx, err := resolveHeader(source, rows[0])
	if err != nil {
		return nil, err
	}

	table := &models.FactTable{}
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		if d := idx[ColDate]; d < len(cells) {
			cells[d] = serialDate(cells[d])
		}
		rec, err := parseRow(source, i+1, cells, idx)
		if err != nil {
			return nil, err
		}
		table.Append(rec)
	}
	return table, nil
}

// ReadXLSXFile opens path and parses it with ReadXLSX.
func ReadXLSXFile(path string) (*models.FactTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	return ReadXLSX(f, filepath.Base(path))
}

// serialDate converts an Excel date serial to an ISO date. Other values pass through.
func serialDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format(time.DateOnly)
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// WriteXLSX writes t to a new workbook at path.
func WriteXLSX(path string, t *models.FactTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := 0; i < t.Len(); i++ {
		r := t.Record(i)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.Date.Format(time.DateOnly), r.Region, r.Track,
			r.Streams, r.Likes, r.Shares, r.SkipRate, r.PlaylistReach,
			r.CampaignType, r.PremiumConversions, r.Revenue,
			r.CostPerAcquisition, r.ROI,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
