package alignment_report

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"aln_qc_report/config"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	reportTemplate     *template.Template
	reportTemplateOnce sync.Once
	errReportTemplate  error
)

func getTemplate() (*template.Template, error) {
	reportTemplateOnce.Do(func() {
		reportTemplate, errReportTemplate = template.ParseFS(templateFS, "templates/*.html")
	})
	return reportTemplate, errReportTemplate
}

// errAlreadyWritten guards the one-shot lifecycle of a Report.
var errAlreadyWritten = errors.New("report has already been written")

// Block is one table or plot inside a section.
type Block struct {
	Heading string
	Content template.HTML
}

// Section is a titled group of blocks. Key doubles as the anchor and the
// navigation label.
type Section struct {
	Title  string
	Key    string
	Blocks []Block
}

// Report accumulates sections in order and is written exactly once.
type Report struct {
	Title    string
	RunName  string
	Params   *CSVTable
	Versions *CSVTable
	Sections []Section

	written bool
}

// NewReport creates an empty report. params and versions may be nil.
func NewReport(title, runName string, params, versions *CSVTable) *Report {
	return &Report{Title: title, RunName: runName, Params: params, Versions: versions}
}

// AddSection appends a section after the existing ones.
func (r *Report) AddSection(title, key string, blocks ...Block) {
	r.Sections = append(r.Sections, Section{Title: title, Key: key, Blocks: blocks})
}

// Section looks a section up by key.
func (r *Report) Section(key string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

type reportData struct {
	Title    string
	RunName  string
	Sections []Section
	Params   template.HTML
	Versions template.HTML
	Footer   string
}

// Render writes the report as a self-contained HTML document.
func (r *Report) Render(w io.Writer) error {
	tmpl, err := getTemplate()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	data := reportData{
		Title:    r.Title,
		RunName:  r.RunName,
		Sections: r.Sections,
		Footer:   "aln_qc_report " + config.Alignment_Report,
	}
	if r.Params != nil {
		data.Params = CSVTableHTML(r.Params)
	}
	if r.Versions != nil {
		data.Versions = CSVTableHTML(r.Versions)
	}

	if err := tmpl.ExecuteTemplate(w, "report.html", data); err != nil {
		return fmt.Errorf("executing report template: %w", err)
	}
	return nil
}

// Write renders the report next to path and renames it into place, so a
// failed write never leaves a file that looks like a finished report.
func (r *Report) Write(path string) (err error) {
	if r.written {
		return fmt.Errorf("%w: %w", ErrWrite, errAlreadyWritten)
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = r.Render(bw); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	r.written = true
	return nil
}

// newTable returns a go-pretty writer styled for the report. Columns listed
// in numeric are right aligned.
func newTable(header table.Row, numeric ...int) table.Writer {
	tw := table.NewWriter()
	tw.Style().HTML.CSSClass = "qc-table"
	tw.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(numeric))
	for _, col := range numeric {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)
	return tw
}

// CSVTableHTML renders a parameter or version listing.
func CSVTableHTML(t *CSVTable) template.HTML {
	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw := newTable(header)
	for _, rec := range t.Rows {
		row := make(table.Row, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		tw.AppendRow(row)
	}
	return template.HTML(tw.RenderHTML())
}
