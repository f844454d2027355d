package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/username/oaharvest/src/models"
)

// Table is the in-memory form of a persisted dataset file: an ordered list
// of rows under a stable header.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// Column returns the index of a header column.
func (t *Table) Column(name string) (int, bool) {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Header))
		for i, col := range t.Header {
			t.index[col] = i
		}
	}
	i, ok := t.index[name]
	return i, ok
}

// ReadTable loads a dataset CSV file.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset file %s has no header", path)
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// WriteTable rewrites a dataset file atomically: the content is written to a
// temp file in the same directory and renamed over the target. Columns
// listed in the openCost quotemask are force-quoted; period and cost columns
// stay bare.
func WriteTable(path string, table *Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	var sb strings.Builder
	writeRow(&sb, table.Header, table.Header)
	for _, row := range table.Rows {
		writeRow(&sb, table.Header, row)
	}
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace dataset file %s: %w", path, err)
	}
	return nil
}

// writeRow renders one CSV line applying the per-column quote rules. The
// header itself follows the same mask as its rows.
func writeRow(sb *strings.Builder, header, row []string) {
	for i, value := range row {
		if i > 0 {
			sb.WriteByte(',')
		}
		quote := i < len(header) && models.QuoteField(header[i])
		if strings.ContainsAny(value, ",\"\n") {
			quote = true
		}
		if quote {
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(value, `"`, `""`))
			sb.WriteByte('"')
		} else {
			sb.WriteString(value)
		}
	}
	sb.WriteByte('\n')
}
