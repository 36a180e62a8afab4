package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// ReadCSV parses a fact table from r. source names the input in errors.
func ReadCSV(r io.Reader, source string) (*models.FactTable, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Source: source, Reason: "no header row"}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := resolveHeader(source, header)
	if err != nil {
		return nil, err
	}

	table := &models.FactTable{}
	for row := 1; ; row++ {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		rec, err := parseRow(source, row, cells, idx)
		if err != nil {
			return nil, err
		}
		table.Append(rec)
	}
	return table, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) (*models.FactTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, filepath.Base(path))
}

// WriteCSV writes t with a header row in Columns order.
func WriteCSV(w io.Writer, t *models.FactTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.Len(); i++ {
		if err := cw.Write(formatRow(t.Record(i))); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates path and writes t to it.
func WriteCSVFile(path string, t *models.FactTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
