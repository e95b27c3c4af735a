// Package render turns the site document into an HTML page or a plain
// text summary for terminals.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/alfredjeanlab/marketpro/internal/model"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer renders pages. It is safe for concurrent use.
type Renderer struct {
	page *template.Template
	md   goldmark.Markdown
}

// ChartBar is one bar of the performance chart, scaled against the
// largest reach in the series.
type ChartBar struct {
	model.ChartPoint
	Percent int
}

// PageData is the template input.
type PageData struct {
	Doc    *model.SiteDocument
	Chart  []ChartBar
	Active int // testimonial shown first
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{
		// Raw HTML in the source is escaped, not passed through.
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}
	page, err := template.New("page.html.tmpl").
		Funcs(template.FuncMap{"markdown": r.markdown}).
		ParseFS(templatesFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	r.page = page
	return r, nil
}

// Page writes the full HTML page for doc.
func (r *Renderer) Page(w io.Writer, doc *model.SiteDocument) error {
	data := PageData{Doc: doc, Chart: chartBars(model.PerformanceChart())}
	if err := r.page.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// Markdown converts source to HTML.
func (r *Renderer) Markdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) markdown(source string) (template.HTML, error) {
	return r.Markdown(source)
}

func chartBars(points []model.ChartPoint) []ChartBar {
	peak := 0
	for _, p := range points {
		peak = max(peak, p.Reach)
	}
	bars := make([]ChartBar, len(points))
	for i, p := range points {
		bars[i] = ChartBar{ChartPoint: p}
		if peak > 0 {
			bars[i].Percent = p.Reach * 100 / peak
		}
	}
	return bars
}
