package alignment_report

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPerReadStats_ConcatenatesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, dir, "b.tsv", tsv(statsHeader,
		"r3\tchr2\t90\t0.2\t400\t500\t10.0\t97.0\t96.0\tB",
	))
	writeGzipFixture(t, dir, "a.tsv.gz", tsv(statsHeader,
		"r1\tchr1\t95\t0.1\t950\t1000\t12.5\t99.0\t98.5\tA",
		"r2\t*\tnan\tnan\tnan\t800\t8.0\tnan\tnan\tA",
	))

	table, err := LoadPerReadStats(dir)
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"A", "B"}, table.Samples.Names())

	// Files are read in name order: a.tsv.gz first.
	first := table.Rows[0]
	assert.Equal(t, "r1", first.Name)
	assert.Equal(t, "chr1", first.Ref)
	assert.Equal(t, 0, first.SampleCode)
	assert.InDelta(t, 1000.0, first.ReadLength, 1e-9)
	assert.InDelta(t, 98.5, first.Accuracy, 1e-9)
	assert.True(t, first.Mapped())

	unmapped := table.Rows[1]
	assert.False(t, unmapped.Mapped())
	assert.True(t, math.IsNaN(unmapped.Accuracy))
	assert.InDelta(t, 800.0, unmapped.ReadLength, 1e-9)

	assert.Equal(t, 1, table.Rows[2].SampleCode)
}

func TestLoadPerReadStats_OptionalColumns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, dir, "min.tsv", tsv("ref\tsample_name", "chr1\tA", "*\tA"))

	table, err := LoadPerReadStats(dir)
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.True(t, math.IsNaN(table.Rows[0].ReadLength))
	assert.True(t, math.IsNaN(table.Rows[0].MeanQuality))
}

func TestLoadPerReadStats_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	emptyDir := filepath.Join(root, "empty")
	writeFixture(t, emptyDir, ".hidden", "x")

	headerOnly := filepath.Join(root, "header_only")
	writeFixture(t, headerOnly, "a.tsv", tsv(statsHeader))

	missingCol := filepath.Join(root, "missing_col")
	writeFixture(t, missingCol, "a.tsv", tsv("name\tref", "r1\tchr1"))

	badNumber := filepath.Join(root, "bad_number")
	writeFixture(t, badNumber, "a.tsv", tsv("ref\tread_length\tsample_name", "chr1\tlong\tA"))

	ragged := filepath.Join(root, "ragged")
	writeFixture(t, ragged, "a.tsv", tsv("ref\tsample_name", "chr1\tA\textra"))

	zeroBytes := filepath.Join(root, "zero_bytes")
	writeFixture(t, zeroBytes, "a.tsv", "")

	tests := []struct {
		name string
		dir  string
	}{
		{name: "no directory given", dir: ""},
		{name: "missing directory", dir: filepath.Join(root, "nope")},
		{name: "no data files", dir: emptyDir},
		{name: "no records", dir: headerOnly},
		{name: "missing required column", dir: missingCol},
		{name: "bad number", dir: badNumber},
		{name: "wrong field count", dir: ragged},
		{name: "empty file", dir: zeroBytes},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadPerReadStats(tt.dir)
			require.ErrorIs(t, err, ErrDataLoad)
		})
	}
}

func TestLoadFlagStats_PerReferenceRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, dir, "A.flagstat.tsv", tsv(flagstatHeader,
		"chr1\t5\t4\t1\t0\t0\t0\t1\tA",
		"*\t2\t2\t0\t0\t2\t0\t0\tA",
	))

	table, err := LoadFlagStats(dir)
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"A"}, table.Samples.Names())

	row := table.Rows[0]
	assert.Equal(t, "chr1", row.Ref)
	assert.Equal(t, int64(5), row.Total)
	assert.Equal(t, int64(4), row.Primary)
	assert.Equal(t, int64(1), row.Secondary)
	assert.Equal(t, int64(1), row.Duplicate)
	assert.False(t, row.HasMapped)
	assert.Equal(t, int64(2), table.Rows[1].Unmapped)
}

func TestLoadFlagStats_MappedColumn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, dir, "A.tsv", tsv("total\tmapped\tsample_name", "2\t1\tA"))

	table, err := LoadFlagStats(dir)
	require.NoError(t, err)

	require.Equal(t, 1, table.Len())
	assert.True(t, table.Rows[0].HasMapped)
	assert.Equal(t, int64(1), table.Rows[0].Mapped)
	assert.Equal(t, int64(0), table.Rows[0].Secondary)
}

func TestLoadFlagStats_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	noTotal := filepath.Join(root, "no_total")
	writeFixture(t, noTotal, "a.tsv", tsv("mapped\tsample_name", "1\tA"))

	fractional := filepath.Join(root, "fractional")
	writeFixture(t, fractional, "a.tsv", tsv("total\tsample_name", "1.5\tA"))

	for _, dir := range []string{noTotal, fractional, filepath.Join(root, "missing")} {
		_, err := LoadFlagStats(dir)
		require.ErrorIs(t, err, ErrDataLoad, dir)
	}
}
