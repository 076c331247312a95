package alignment_report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SummaryRow is one line of the Summary section.
type SummaryRow struct {
	Sample        string
	Reads         int64
	Mapped        int64
	Unmapped      int64
	MappedPct     float64
	UnmappedPct   float64
	Secondary     int64
	Supplementary int64
	Duplicate     int64
	Yield         float64
	MedianLength  float64
	N50           float64
}

// SeqSummaryRow is one line of the read statistics table.
type SeqSummaryRow struct {
	Sample        string
	Reads         int
	Yield         float64
	MeanLength    float64
	MedianLength  float64
	N50           float64
	MedianQuality float64
}

// MappingRow summarises the reads of one sample aligned to one reference.
type MappingRow struct {
	Sample       string
	Ref          string
	Reads        int
	AlignedBases float64
	MeanAccuracy float64
	MeanIdentity float64
	MeanCoverage float64
}

// Summarise builds the Summary section rows, one per sample in category
// order. Read counts come from flagstat, length metrics from per-read stats.
func Summarise(samples Categories, reads *Table[ReadStat], flags *Table[FlagStat]) []SummaryRow {
	out := make([]SummaryRow, samples.Len())
	hasMapped := make([]bool, samples.Len())
	mappedSum := make([]int64, samples.Len())
	unmappedSum := make([]int64, samples.Len())

	for i := range out {
		out[i].Sample = samples.Name(i)
	}

	for _, f := range flags.Rows {
		code, ok := samples.Code(f.Sample)
		if !ok {
			continue
		}
		row := &out[code]
		row.Reads += f.Total - f.Secondary - f.Supplementary
		row.Secondary += f.Secondary
		row.Supplementary += f.Supplementary
		row.Duplicate += f.Duplicate
		unmappedSum[code] += f.Unmapped
		if f.HasMapped {
			hasMapped[code] = true
			mappedSum[code] += f.Mapped
		}
	}

	lengths := groupValues(samples, reads.Rows, func(r ReadStat) float64 { return r.ReadLength })

	for i := range out {
		row := &out[i]
		if hasMapped[i] {
			row.Mapped = mappedSum[i]
		} else {
			row.Mapped = row.Reads - unmappedSum[i]
		}
		row.Unmapped = row.Reads - row.Mapped
		row.MappedPct = percent(row.Mapped, row.Reads)
		row.UnmappedPct = percent(row.Unmapped, row.Reads)

		row.Yield = floats.Sum(lengths[i])
		row.MedianLength = median(lengths[i])
		row.N50 = n50(lengths[i])
	}
	return out
}

// SequenceSummary describes the reads of every sample, mapped or not.
func SequenceSummary(t *Table[ReadStat]) []SeqSummaryRow {
	lengths := groupValues(t.Samples, t.Rows, func(r ReadStat) float64 { return r.ReadLength })
	quals := groupValues(t.Samples, t.Rows, func(r ReadStat) float64 { return r.MeanQuality })
	counts := make([]int, t.Samples.Len())
	for _, r := range t.Rows {
		counts[r.SampleCode]++
	}

	out := make([]SeqSummaryRow, t.Samples.Len())
	for i := range out {
		out[i] = SeqSummaryRow{
			Sample:        t.Samples.Name(i),
			Reads:         counts[i],
			Yield:         floats.Sum(lengths[i]),
			MeanLength:    mean(lengths[i]),
			MedianLength:  median(lengths[i]),
			N50:           n50(lengths[i]),
			MedianQuality: median(quals[i]),
		}
	}
	return out
}

// MappedRows keeps only the records aligned to a reference. The category set
// is carried over unchanged.
func MappedRows(t *Table[ReadStat]) *Table[ReadStat] {
	rows := make([]ReadStat, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Mapped() {
			rows = append(rows, r)
		}
	}
	return &Table[ReadStat]{Rows: rows, Samples: t.Samples}
}

// MappingSummary groups mapped records by sample and reference, ordered by
// sample category then reference name.
func MappingSummary(mapped *Table[ReadStat]) []MappingRow {
	type key struct {
		code int
		ref  string
	}
	type acc struct {
		reads                        int
		bases                        float64
		accuracy, identity, coverage []float64
	}
	groups := make(map[key]*acc)
	for _, r := range mapped.Rows {
		if !r.Mapped() {
			continue
		}
		k := key{r.SampleCode, r.Ref}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.reads++
		if !math.IsNaN(r.AlignedRefLen) {
			g.bases += r.AlignedRefLen
		}
		g.accuracy = appendFinite(g.accuracy, r.Accuracy)
		g.identity = appendFinite(g.identity, r.Identity)
		g.coverage = appendFinite(g.coverage, r.Coverage)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].code != keys[j].code {
			return keys[i].code < keys[j].code
		}
		return keys[i].ref < keys[j].ref
	})

	out := make([]MappingRow, len(keys))
	for i, k := range keys {
		g := groups[k]
		out[i] = MappingRow{
			Sample:       mapped.Samples.Name(k.code),
			Ref:          k.ref,
			Reads:        g.reads,
			AlignedBases: g.bases,
			MeanAccuracy: mean(g.accuracy),
			MeanIdentity: mean(g.identity),
			MeanCoverage: mean(g.coverage),
		}
	}
	return out
}

// ReadsPerReference counts mapped records per reference over all samples,
// sorted by reference name.
func ReadsPerReference(mapped *Table[ReadStat]) ([]string, []float64) {
	counts := make(map[string]float64)
	for _, r := range mapped.Rows {
		if r.Mapped() {
			counts[r.Ref]++
		}
	}
	refs := make([]string, 0, len(counts))
	for ref := range counts {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	values := make([]float64, len(refs))
	for i, ref := range refs {
		values[i] = counts[ref]
	}
	return refs, values
}

// groupValues collects the finite values of one metric per sample code.
func groupValues(samples Categories, rows []ReadStat, metric func(ReadStat) float64) [][]float64 {
	out := make([][]float64, samples.Len())
	for _, r := range rows {
		code, ok := samples.Code(r.Sample)
		if !ok {
			continue
		}
		out[code] = appendFinite(out[code], metric(r))
	}
	return out
}

func appendFinite(dst []float64, v float64) []float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return dst
	}
	return append(dst, v)
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// median averages the two middle values of an even-sized sample.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// n50 is the length L such that reads of length >= L hold at least half of
// the total yield.
func n50(lengths []float64) float64 {
	if len(lengths) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), lengths...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	half := floats.Sum(sorted) / 2
	var cum float64
	for _, l := range sorted {
		cum += l
		if cum >= half {
			return l
		}
	}
	return sorted[len(sorted)-1]
}
