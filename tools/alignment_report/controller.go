package alignment_report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"aln_qc_report/benchmark"
	"aln_qc_report/config"
	"aln_qc_report/logging"
)

// Result describes a finished run.
type Result struct {
	Path    string
	Report  *Report
	Summary []SummaryRow
	Mapping []MappingRow
}

// Run loads both stat sources, checks they describe the same samples,
// assembles the report and writes it. Nothing is written unless every
// earlier stage succeeded.
func Run(ctx context.Context, opts config.Options, log *zap.Logger) (*Result, error) {
	log = log.Named("report")

	stats, err := LoadPerReadStats(opts.StatsDir)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded per-read stats", zap.String("dir", opts.StatsDir),
		zap.Int("rows", stats.Len()), zap.Strings("samples", stats.Samples.Names()))

	flagstat, err := LoadFlagStats(opts.FlagstatDir)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded flagstat", zap.String("dir", opts.FlagstatDir),
		zap.Int("rows", flagstat.Len()), zap.Strings("samples", flagstat.Samples.Names()))

	if err := ValidateSampleNames(stats.Samples, flagstat.Samples); err != nil {
		return nil, err
	}
	sampleNames := stats.Samples

	if opts.RefnamesDir != "" {
		log.Debug("reference names directory accepted but not used", zap.String("dir", opts.RefnamesDir))
	}

	params, err := ReadCSVTable(opts.Params)
	if err != nil {
		return nil, err
	}
	versions, err := ReadCSVTable(opts.Versions)
	if err != nil {
		return nil, err
	}

	report := NewReport(fmt.Sprintf("%s reads QC report", opts.Name), opts.Name, params, versions)

	summary := Summarise(sampleNames, stats, flagstat)
	AddSummarySection(report, summary)

	if err := AddReadStatsSection(ctx, log, report, stats); err != nil {
		return nil, err
	}

	mapping, err := AddMappingSection(ctx, log, report, MappedRows(stats))
	if err != nil {
		return nil, err
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = "."
	}
	path := filepath.Join(outDir, opts.ReportFilename())
	if err := report.Write(path); err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("Written report to '%s'.", path))

	return &Result{Path: path, Report: report, Summary: summary, Mapping: mapping}, nil
}

// NewCommand builds the report command line.
func NewCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render an HTML alignment QC report from bamstats outputs",
		Long: `Reads bamstats per-read statistics and flagstat tables, checks that both
describe the same samples, and writes <name>-alignment-report.html to the
working directory.

Every option can also be set in a YAML file (--config) or through an
ALN_REPORT_<OPTION> environment variable, e.g. ALN_REPORT_STATS_DIR.`,
		Version:       config.Main_version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := config.Load(cmd.Flags(), configPath)
			if err != nil {
				return err
			}

			logCfg := logging.DefaultConfig()
			logCfg.Level = opts.LogLevel
			logCfg.Format = opts.LogFormat
			log, err := logging.New(logCfg)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer log.Sync() //nolint:errcheck

			run := func() error {
				_, err := Run(cmd.Context(), opts, log)
				return err
			}
			if opts.Benchmark {
				label := "report " + strings.Join(flagSummary(cmd), " ")
				_, err = benchmark.Run(log, label, run)
			} else {
				err = run()
			}
			if err != nil {
				log.Error("report failed", zap.Error(err))
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.String("name", "", "report name")
	flags.String("stats_dir", "", "directory with bamstats per-read stats for the sample")
	flags.String("flagstat_dir", "", "directory with bamstats per-file stats")
	flags.String("refnames_dir", "", "directory with files containing reference names")
	flags.String("params", "", "CSV file with workflow parameters")
	flags.String("versions", "", "CSV file with software versions")
	flags.String("log_level", "info", "log level: debug, info, warn, error")
	flags.String("log_format", "console", "log format: console or json")
	flags.Bool("benchmark", false, "log time and memory used by the run")
	flags.StringVar(&configPath, "config", "", "optional YAML file with option defaults")
	cmd.SetVersionTemplate("aln_qc_report {{.Version}} (alignment report " + config.Alignment_Report + ")\n")

	return cmd
}

// flagSummary lists the flags set on the command line, for labelling runs.
func flagSummary(cmd *cobra.Command) []string {
	var out []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		out = append(out, "--"+f.Name+"="+f.Value.String())
	})
	return out
}
