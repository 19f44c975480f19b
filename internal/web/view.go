package web

import (
	"errors"
	"html"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"tradelog/internal/content"
	"tradelog/internal/journal"
)

var mdRenderer = goldmark.New()

type viewField struct {
	Label string
	HTML  template.HTML
}

type viewSection struct {
	Name   string
	Fields []viewField
}

type viewImage struct {
	URL     string
	Alt     string
	Caption string
}

type entryView struct {
	Date     string
	Sections []viewSection
	Charts   []viewImage
	Insight  template.HTML
}

// handleViewEntry renders a stored entry as HTML. Field values are
// already sanitized at write time; rendering only resolves wikilink
// image tokens and formats the AI insight markdown.
func (s *Server) handleViewEntry(w http.ResponseWriter, r *http.Request, dateStr string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	entry, err := s.store.GetEntry(r.Context(), date)
	if errors.Is(err, journal.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	view := entryView{Date: entry.Date}
	for _, sec := range journal.Form {
		vs := viewSection{Name: sec.Name}
		for _, spec := range sec.Fields {
			value := entry.Field(spec.Key)
			if strings.TrimSpace(value) == "" {
				continue
			}
			vs.Fields = append(vs.Fields, viewField{
				Label: spec.Label,
				HTML:  s.fieldHTML(value, entry.Images),
			})
		}
		if len(vs.Fields) > 0 {
			view.Sections = append(view.Sections, vs)
		}
	}

	for _, img := range entry.Images {
		if img.Section != content.SectionChartUpload {
			continue
		}
		alt := img.Caption
		if alt == "" {
			alt = "Trading chart"
		}
		view.Charts = append(view.Charts, viewImage{
			URL:     strings.TrimRight(s.cfg.UploadsURL, "/") + "/" + img.RelPath,
			Alt:     alt,
			Caption: img.Caption,
		})
	}

	if entry.AIInsight != "" {
		view.Insight = s.renderInsight(entry.AIInsight)
	}

	s.views.Render(w, "entry.html", view)
}

// fieldHTML prepares one stored field value for embedding. HTML values
// were sanitized on save; plain text is escaped and newlines become
// breaks. Both get their wikilink tokens resolved against the manifest.
func (s *Server) fieldHTML(value string, images []content.ExtractedImage) template.HTML {
	if !strings.Contains(value, "<") {
		value = html.EscapeString(value)
		value = strings.ReplaceAll(value, "\n", "<br>")
		value = "<p>" + value + "</p>"
	}
	return template.HTML(content.ResolveWikilinks(value, images, s.cfg.UploadsURL))
}

// renderInsight converts the AI markdown to HTML and passes it through
// the sanitizer: model output is untrusted input like any other.
func (s *Server) renderInsight(md string) template.HTML {
	var b strings.Builder
	if err := mdRenderer.Convert([]byte(md), &b); err != nil {
		return template.HTML("<pre>" + html.EscapeString(md) + "</pre>")
	}
	return template.HTML(s.san.Sanitize(b.String()))
}
