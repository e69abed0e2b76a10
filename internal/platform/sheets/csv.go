package sheets

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"teamstats/internal/domain/employees"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a header row followed by records and keys every record by header. Short records
// leave the missing columns empty; extra trailing fields are dropped.
func ParseCSV(data []byte) ([]employees.Row, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []employees.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := []employees.Row{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		row := make(employees.Row, len(header))
		for i, column := range header {
			if column == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = record[i]
			}
			row[column] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}
