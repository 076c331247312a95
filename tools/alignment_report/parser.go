package alignment_report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	common "aln_qc_report/utils"
)

// UnmappedRef is the reference name bamstats gives reads that did not align.
const UnmappedRef = "*"

const (
	colSample        = "sample_name"
	colRef           = "ref"
	colName          = "name"
	colReadLength    = "read_length"
	colMeanQuality   = "mean_quality"
	colAccuracy      = "acc"
	colIdentity      = "iden"
	colCoverage      = "coverage"
	colRefCoverage   = "ref_coverage"
	colAlignedRefLen = "aligned_ref_len"

	colTotal         = "total"
	colPrimary       = "primary"
	colSecondary     = "secondary"
	colSupplementary = "supplementary"
	colUnmapped      = "unmapped"
	colQCFail        = "qcfail"
	colDuplicate     = "duplicate"
	colMapped        = "mapped"
)

// ReadStat is one bamstats per-read record. Metrics missing from the input
// are NaN and skipped by every aggregation.
type ReadStat struct {
	Name          string
	Sample        string
	SampleCode    int
	Ref           string
	ReadLength    float64
	MeanQuality   float64
	Accuracy      float64
	Identity      float64
	Coverage      float64
	RefCoverage   float64
	AlignedRefLen float64
}

// Mapped reports whether the record aligned to a reference.
func (r ReadStat) Mapped() bool { return r.Ref != UnmappedRef }

// FlagStat is one bamstats flagstat row. Counts missing from the input are 0.
type FlagStat struct {
	Sample        string
	SampleCode    int
	Ref           string
	Total         int64
	Primary       int64
	Secondary     int64
	Supplementary int64
	Unmapped      int64
	QCFail        int64
	Duplicate     int64
	Mapped        int64
	HasMapped     bool
}

// Table is a concatenation of rows from every file of an input directory,
// with its sample column encoded as Categories.
type Table[T any] struct {
	Rows    []T
	Samples Categories
}

// Len is the number of rows.
func (t *Table[T]) Len() int { return len(t.Rows) }

type tsvRecord struct {
	file   string
	line   int
	header map[string]int
	fields []string
}

func (r tsvRecord) has(col string) bool {
	_, ok := r.header[col]
	return ok
}

func (r tsvRecord) str(col string) string {
	i, ok := r.header[col]
	if !ok {
		return ""
	}
	return r.fields[i]
}

// float parses a metric column; absent columns and empty cells are NaN.
func (r tsvRecord) float(col string) (float64, error) {
	s := strings.TrimSpace(r.str(col))
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s:%d: column %s: %w", r.file, r.line, col, err)
	}
	return v, nil
}

// count parses a count column; absent columns and empty cells are 0.
func (r tsvRecord) count(col string) (int64, error) {
	s := strings.TrimSpace(r.str(col))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s:%d: column %s: %w", r.file, r.line, col, err)
	}
	return v, nil
}

// readTSVDir streams every record of every data file in dir, in file name
// order, to fn. Each file must carry a header with the required columns.
func readTSVDir(dir string, required []string, fn func(tsvRecord) error) error {
	if dir == "" {
		return fmt.Errorf("%w: no directory given", ErrDataLoad)
	}
	files, err := common.ListDataFiles(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataLoad, err)
	}
	for _, file := range files {
		if err := readTSVFile(file, required, fn); err != nil {
			return fmt.Errorf("%w: %w", ErrDataLoad, err)
		}
	}
	return nil
}

func readTSVFile(file string, required []string, fn func(tsvRecord) error) error {
	rc, err := common.OpenMaybeGzip(file)
	if err != nil {
		return err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.Comma = '\t'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: empty file", file)
	}
	if err != nil {
		return fmt.Errorf("%s: reading header: %w", file, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%s: missing required column %q", file, col)
		}
	}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if err := fn(tsvRecord{file: file, line: line, header: index, fields: fields}); err != nil {
			return err
		}
	}
}

// LoadPerReadStats reads all bamstats per-read files in dir into one table.
func LoadPerReadStats(dir string) (*Table[ReadStat], error) {
	var rows []ReadStat
	err := readTSVDir(dir, []string{colSample, colRef}, func(rec tsvRecord) error {
		row := ReadStat{
			Name:   rec.str(colName),
			Sample: rec.str(colSample),
			Ref:    rec.str(colRef),
		}
		metrics := []struct {
			col string
			dst *float64
		}{
			{colReadLength, &row.ReadLength},
			{colMeanQuality, &row.MeanQuality},
			{colAccuracy, &row.Accuracy},
			{colIdentity, &row.Identity},
			{colCoverage, &row.Coverage},
			{colRefCoverage, &row.RefCoverage},
			{colAlignedRefLen, &row.AlignedRefLen},
		}
		for _, m := range metrics {
			v, err := rec.float(m.col)
			if err != nil {
				return err
			}
			*m.dst = v
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no per-read records in %s", ErrDataLoad, dir)
	}

	samples := make([]string, len(rows))
	for i := range rows {
		samples[i] = rows[i].Sample
	}
	cats := NewCategories(samples)
	for i := range rows {
		rows[i].SampleCode, _ = cats.Code(rows[i].Sample)
	}
	return &Table[ReadStat]{Rows: rows, Samples: cats}, nil
}

// LoadFlagStats reads all bamstats flagstat files in dir into one table.
func LoadFlagStats(dir string) (*Table[FlagStat], error) {
	var rows []FlagStat
	err := readTSVDir(dir, []string{colSample, colTotal}, func(rec tsvRecord) error {
		row := FlagStat{
			Sample:    rec.str(colSample),
			Ref:       rec.str(colRef),
			HasMapped: rec.has(colMapped),
		}
		counts := []struct {
			col string
			dst *int64
		}{
			{colTotal, &row.Total},
			{colPrimary, &row.Primary},
			{colSecondary, &row.Secondary},
			{colSupplementary, &row.Supplementary},
			{colUnmapped, &row.Unmapped},
			{colQCFail, &row.QCFail},
			{colDuplicate, &row.Duplicate},
			{colMapped, &row.Mapped},
		}
		for _, c := range counts {
			v, err := rec.count(c.col)
			if err != nil {
				return err
			}
			*c.dst = v
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no flagstat records in %s", ErrDataLoad, dir)
	}

	samples := make([]string, len(rows))
	for i := range rows {
		samples[i] = rows[i].Sample
	}
	cats := NewCategories(samples)
	for i := range rows {
		rows[i].SampleCode, _ = cats.Code(rows[i].Sample)
	}
	return &Table[FlagStat]{Rows: rows, Samples: cats}, nil
}
