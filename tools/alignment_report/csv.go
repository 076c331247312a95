package alignment_report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	common "aln_qc_report/utils"
)

// CSVTable is a small header-plus-rows table such as the workflow parameter
// or software version listings shown at the end of the report.
type CSVTable struct {
	Header []string
	Rows   [][]string
}

// ReadCSVTable loads a comma separated file with a header row. An empty path
// means the table was not requested and yields nil.
func ReadCSVTable(path string) (*CSVTable, error) {
	if path == "" {
		return nil, nil
	}

	rc, err := common.OpenMaybeGzip(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataLoad, err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: empty file", ErrDataLoad, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataLoad, path, err)
	}

	table := &CSVTable{Header: trimAll(header)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDataLoad, path, err)
		}
		// Pad or cut ragged rows to the header width.
		row := make([]string, len(table.Header))
		copy(row, trimAll(record))
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
