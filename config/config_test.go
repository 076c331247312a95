package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aln_qc_report/config"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("report", pflag.ContinueOnError)
	fs.String("name", "", "")
	fs.String("stats_dir", "", "")
	fs.String("flagstat_dir", "", "")
	fs.String("refnames_dir", "", "")
	fs.String("params", "", "")
	fs.String("versions", "", "")
	fs.String("log_level", "info", "")
	fs.String("log_format", "console", "")
	fs.Bool("benchmark", false, "")
	require.NoError(t, fs.Parse(args))

	return fs
}

func TestLoad_FromFlags(t *testing.T) {
	fs := newFlags(t,
		"--name", "run1",
		"--stats_dir", "stats",
		"--flagstat_dir", "flagstat",
		"--refnames_dir", "refnames",
		"--versions", "versions.csv",
	)

	opts, err := config.Load(fs, "")
	require.NoError(t, err)

	assert.Equal(t, "run1", opts.Name)
	assert.Equal(t, "stats", opts.StatsDir)
	assert.Equal(t, "flagstat", opts.FlagstatDir)
	assert.Equal(t, "refnames", opts.RefnamesDir)
	assert.Equal(t, "versions.csv", opts.Versions)
	assert.Empty(t, opts.Params)
	assert.Equal(t, ".", opts.OutDir)
	assert.Equal(t, "info", opts.LogLevel)
	assert.False(t, opts.Benchmark)
	assert.Equal(t, "run1-alignment-report.html", opts.ReportFilename())
}

func TestLoad_EnvFallback(t *testing.T) {
	t.Setenv("ALN_REPORT_NAME", "fromenv")
	t.Setenv("ALN_REPORT_STATS_DIR", "/data/stats")

	opts, err := config.Load(newFlags(t), "")
	require.NoError(t, err)

	assert.Equal(t, "fromenv", opts.Name)
	assert.Equal(t, "/data/stats", opts.StatsDir)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("ALN_REPORT_NAME", "fromenv")

	opts, err := config.Load(newFlags(t, "--name", "fromflag"), "")
	require.NoError(t, err)
	assert.Equal(t, "fromflag", opts.Name)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	content := "name: fromfile\nflagstat_dir: fs\nout_dir: out\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	opts, err := config.Load(newFlags(t), path)
	require.NoError(t, err)

	assert.Equal(t, "fromfile", opts.Name)
	assert.Equal(t, "fs", opts.FlagstatDir)
	assert.Equal(t, "out", opts.OutDir)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := config.Load(newFlags(t, "--name", "x"), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_NameRequired(t *testing.T) {
	_, err := config.Load(newFlags(t, "--stats_dir", "stats"), "")
	require.ErrorIs(t, err, config.ErrNameRequired)
}
