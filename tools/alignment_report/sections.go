package alignment_report

import (
	"context"
	"fmt"
	"html/template"
	"math"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Section titles and navigation keys.
const (
	SummaryTitle   = "Summary"
	SummaryKey     = "Summary"
	ReadStatsTitle = "Read statistics"
	ReadStatsKey   = "Stats"
	MappingTitle   = "Mapping"
	MappingKey     = "Mapping"
)

func formatCount(v int64) string { return humanize.Comma(v) }

func formatPct(v float64) string { return fmt.Sprintf("%.1f", v) }

func formatBases(v float64) string { return humanize.SIWithDigits(v, 2, "b") }

func formatLength(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return humanize.CommafWithDigits(v, 1)
}

func formatScore(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

// SummaryTableHTML renders the per-sample read counts table.
func SummaryTableHTML(rows []SummaryRow) template.HTML {
	tw := newTable(table.Row{
		"Sample", "Reads", "Mapped", "Unmapped", "Mapped (%)", "Unmapped (%)",
		"Secondary", "Supplementary", "Duplicate", "Yield", "Median length", "N50",
	}, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	for _, r := range rows {
		tw.AppendRow(table.Row{
			r.Sample,
			formatCount(r.Reads),
			formatCount(r.Mapped),
			formatCount(r.Unmapped),
			formatPct(r.MappedPct),
			formatPct(r.UnmappedPct),
			formatCount(r.Secondary),
			formatCount(r.Supplementary),
			formatCount(r.Duplicate),
			formatBases(r.Yield),
			formatLength(r.MedianLength),
			formatLength(r.N50),
		})
	}
	return template.HTML(tw.RenderHTML())
}

// SeqSummaryTableHTML renders the read statistics table.
func SeqSummaryTableHTML(rows []SeqSummaryRow) template.HTML {
	tw := newTable(table.Row{
		"Sample", "Reads", "Yield", "Mean length", "Median length", "N50", "Median quality",
	}, 2, 3, 4, 5, 6, 7)
	for _, r := range rows {
		tw.AppendRow(table.Row{
			r.Sample,
			formatCount(int64(r.Reads)),
			formatBases(r.Yield),
			formatLength(r.MeanLength),
			formatLength(r.MedianLength),
			formatLength(r.N50),
			formatScore(r.MedianQuality),
		})
	}
	return template.HTML(tw.RenderHTML())
}

// MappingTableHTML renders the per sample and reference mapping table.
func MappingTableHTML(rows []MappingRow) template.HTML {
	tw := newTable(table.Row{
		"Sample", "Reference", "Reads", "Aligned bases", "Mean accuracy", "Mean identity", "Mean coverage",
	}, 3, 4, 5, 6, 7)
	for _, r := range rows {
		tw.AppendRow(table.Row{
			r.Sample,
			r.Ref,
			formatCount(int64(r.Reads)),
			formatBases(r.AlignedBases),
			formatScore(r.MeanAccuracy),
			formatScore(r.MeanIdentity),
			formatScore(r.MeanCoverage),
		})
	}
	return template.HTML(tw.RenderHTML())
}

// plotJob renders one SVG. Jobs run concurrently; each result lands in its
// own slot so the report does not depend on scheduling.
type plotJob struct {
	name   string
	render func() (string, error)
}

// renderPlots runs all jobs and returns their SVGs in job order. A plot that
// fails to render is replaced by a placeholder and logged.
func renderPlots(ctx context.Context, log *zap.Logger, jobs []plotJob) ([]template.HTML, error) {
	out := make([]template.HTML, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			svg, err := job.render()
			if err != nil {
				log.Warn("failed to generate plot", zap.String("plot", job.name), zap.Error(err))
				out[i] = graphUnavailable
				return nil
			}
			out[i] = template.HTML(svg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddSummarySection adds the per-sample counts table.
func AddSummarySection(report *Report, rows []SummaryRow) {
	report.AddSection(SummaryTitle, SummaryKey, Block{Content: SummaryTableHTML(rows)})
}

// AddReadStatsSection adds the sequence summary of all reads.
func AddReadStatsSection(ctx context.Context, log *zap.Logger, report *Report, reads *Table[ReadStat]) error {
	lengths := seriesFor(reads, func(r ReadStat) float64 { return r.ReadLength })
	quals := seriesFor(reads, func(r ReadStat) float64 { return r.MeanQuality })

	plots, err := renderPlots(ctx, log, []plotJob{
		{name: "read length", render: func() (string, error) {
			return GenerateHistogramSVG(HistogramSpec{
				Title: "Read length distribution", XLabel: "Read length (bases)", YLabel: "Number of reads", Series: lengths,
			})
		}},
		{name: "read quality", render: func() (string, error) {
			return GenerateHistogramSVG(HistogramSpec{
				Title: "Read quality distribution", XLabel: "Mean read quality", YLabel: "Number of reads", Series: quals,
			})
		}},
	})
	if err != nil {
		return err
	}

	report.AddSection(ReadStatsTitle, ReadStatsKey,
		Block{Heading: "Sequence summary", Content: SeqSummaryTableHTML(SequenceSummary(reads))},
		Block{Heading: "Read length", Content: plots[0]},
		Block{Heading: "Read quality", Content: plots[1]},
	)
	return nil
}

// AddMappingSection adds alignment metrics. mapped must only hold records
// aligned to a reference; see MappedRows.
func AddMappingSection(ctx context.Context, log *zap.Logger, report *Report, mapped *Table[ReadStat]) ([]MappingRow, error) {
	rows := MappingSummary(mapped)
	accuracy := seriesFor(mapped, func(r ReadStat) float64 { return r.Accuracy })
	refs, counts := ReadsPerReference(mapped)

	plots, err := renderPlots(ctx, log, []plotJob{
		{name: "accuracy", render: func() (string, error) {
			return GenerateHistogramSVG(HistogramSpec{
				Title: "Alignment accuracy", XLabel: "Accuracy (%)", YLabel: "Number of reads", Series: accuracy,
			})
		}},
		{name: "reads per reference", render: func() (string, error) {
			return GenerateBarSVG("Mapped reads per reference", "Number of reads", refs, counts)
		}},
	})
	if err != nil {
		return nil, err
	}

	report.AddSection(MappingTitle, MappingKey,
		Block{Heading: "Mapping statistics", Content: MappingTableHTML(rows)},
		Block{Heading: "Accuracy", Content: plots[0]},
		Block{Heading: "Reads per reference", Content: plots[1]},
	)
	return rows, nil
}
