package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"

	"tradelog/internal/analysis"
	"tradelog/internal/content"
	"tradelog/internal/journal"
)

const maxUploadBytes = 32 << 20

// inlineDataRe masks any img tag still carrying base64 data when entries
// leave through the JSON listing, matching what the analysis path sends
// out. Persisted entries should never contain these; the mask is a
// backstop for rows written before normalization existed.
var inlineDataRe = regexp.MustCompile(`<img[^>]*src="data:image/[^"]*"[^>]*>`)

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	from, err := parseDateOr(r.URL.Query().Get("from"), time.Time{})
	if err != nil {
		http.Error(w, "invalid from date", http.StatusBadRequest)
		return
	}
	to, err := parseDateOr(r.URL.Query().Get("to"), time.Time{})
	if err != nil {
		http.Error(w, "invalid to date", http.StatusBadRequest)
		return
	}

	entries, err := s.store.ListEntries(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for i := range entries {
		maskInlineData(&entries[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/entries/")
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}
	if strings.HasSuffix(rest, "/view") {
		s.handleViewEntry(w, r, strings.TrimSuffix(rest, "/view"))
		return
	}
	if strings.HasSuffix(rest, "/analyze") {
		s.handleAnalyzeEntry(w, r, strings.TrimSuffix(rest, "/analyze"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetEntry(w, r, rest)
	case http.MethodPost:
		s.handleSaveEntry(w, r, rest)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request, dateStr string) {
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
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request, dateStr string) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var fields []content.Field
	for _, spec := range journal.FieldSpecs() {
		vals, ok := r.MultipartForm.Value[spec.Key]
		if !ok || len(vals) == 0 {
			continue
		}
		fields = append(fields, content.Field{Key: spec.Key, Value: vals[0]})
	}

	uploads, oversize, err := readUploads(r.MultipartForm.File["images"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	captions := r.FormValue("imageCaptions")

	unlock := s.locker.Lock(dateStr)
	defer unlock()

	normalized, err := s.norm.Normalize(fields, uploads, captions, date)
	if err != nil {
		slog.Error("normalize entry", "date", dateStr, "err", err)
		http.Error(w, "failed to save images", http.StatusInternalServerError)
		return
	}

	normalized.SkippedUploads = append(normalized.SkippedUploads, oversize...)

	id, err := s.store.UpsertEntry(r.Context(), date, normalized)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Journal entry saved successfully!",
		"entryId":        id,
		"images":         len(normalized.Images),
		"skippedInline":  normalized.SkippedInline,
		"skippedUploads": normalized.SkippedUploads,
	})
}

func (s *Server) handleAnalyzeEntry(w http.ResponseWriter, r *http.Request, dateStr string) {
	if r.Method != http.MethodPost {
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
	if entry.AIInsight != "" {
		writeJSON(w, http.StatusOK, map[string]any{"message": "AI insight already exists.", "insight": entry.AIInsight})
		return
	}

	prompt := analysis.BuildPrompt([]journal.Entry{*entry}, "")
	insight, err := s.ai.Complete(r.Context(), prompt)
	if errors.Is(err, analysis.ErrNotConfigured) {
		http.Error(w, "AI service not configured", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		slog.Error("analyze entry", "date", dateStr, "err", err)
		http.Error(w, "AI analysis failed", http.StatusBadGateway)
		return
	}
	if err := s.store.SetInsight(r.Context(), entry.ID, insight); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "AI analysis completed and saved.", "insight": insight})
}

// readUploads drains the attached files. Files over the size cap are
// never stored truncated: they are dropped whole and their names
// returned so the save can report them as skipped.
func readUploads(files []*multipart.FileHeader) ([]content.Upload, []string, error) {
	var out []content.Upload
	var oversize []string
	for _, fh := range files {
		if fh.Size > maxUploadBytes {
			slog.Warn("skip upload", "name", fh.Filename, "size", fh.Size, "limit", maxUploadBytes)
			oversize = append(oversize, fh.Filename)
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, nil, err
		}
		if int64(len(data)) > maxUploadBytes {
			slog.Warn("skip upload", "name", fh.Filename, "size", len(data), "limit", maxUploadBytes)
			oversize = append(oversize, fh.Filename)
			continue
		}
		ct := fh.Header.Get("Content-Type")
		if ct == "" && len(data) > 0 {
			ct = http.DetectContentType(data)
		}
		out = append(out, content.Upload{Data: data, Name: fh.Filename, ContentType: ct})
	}
	return out, oversize, nil
}

func maskInlineData(e *journal.Entry) {
	for i, f := range e.Fields {
		if strings.Contains(f.Value, "data:image/") {
			e.Fields[i].Value = inlineDataRe.ReplaceAllString(f.Value, "[IMAGE]")
		}
	}
}

func parseDateOr(v string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write json response", "err", err)
	}
}
