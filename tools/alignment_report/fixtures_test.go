package alignment_report

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const statsHeader = "name\tref\tcoverage\tref_coverage\taligned_ref_len\tread_length\tmean_quality\tiden\tacc\tsample_name"

const flagstatHeader = "ref\ttotal\tprimary\tsecondary\tsupplementary\tunmapped\tqcfail\tduplicate\tsample_name"

func tsv(header string, rows ...string) string {
	return strings.Join(append([]string{header}, rows...), "\n") + "\n"
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func writeGzipFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	return path
}

// sampleAFixtures lays out the single-sample run: two reads, one on chr1 and
// one unmapped, with a flagstat of total=2 mapped=1.
func sampleAFixtures(t *testing.T, root string) (statsDir, flagstatDir, refnamesDir string) {
	t.Helper()

	statsDir = filepath.Join(root, "stats")
	flagstatDir = filepath.Join(root, "flagstat")
	refnamesDir = filepath.Join(root, "refnames")

	writeFixture(t, statsDir, "A.readstats.tsv", tsv(statsHeader,
		"read1\tchr1\t95.0\t0.1\t950\t1000\t12.5\t99.0\t98.5\tA",
		"read2\t*\tnan\tnan\tnan\t800\t8.0\tnan\tnan\tA",
	))
	writeFixture(t, flagstatDir, "A.flagstat.tsv", tsv("total\tmapped\tsample_name", "2\t1\tA"))
	writeFixture(t, refnamesDir, "ref.names", "chr1\n")

	return statsDir, flagstatDir, refnamesDir
}
