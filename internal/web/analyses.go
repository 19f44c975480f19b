package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tradelog/internal/analysis"
	"tradelog/internal/journal"
)

type analysisRequest struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// handleAnalyses runs an AI review over a date range of entries and
// saves the result. GET lists saved analyses.
func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		analyses, err := s.store.ListAnalyses(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"analyses": analyses})
	case http.MethodPost:
		s.handleRunAnalysis(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRunAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	from, err := parseDateOr(req.From, time.Time{})
	if err != nil {
		http.Error(w, "invalid from date", http.StatusBadRequest)
		return
	}
	to, err := parseDateOr(req.To, time.Time{})
	if err != nil {
		http.Error(w, "invalid to date", http.StatusBadRequest)
		return
	}

	entries, err := s.store.ListEntries(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(entries) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"analysis": "No journal entries found for the specified period.",
		})
		return
	}

	prompt := analysis.BuildPrompt(entries, req.Prompt)
	result, err := s.ai.Complete(r.Context(), prompt)
	if errors.Is(err, analysis.ErrNotConfigured) {
		http.Error(w, "AI service not configured", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		slog.Error("run analysis", "err", err)
		http.Error(w, "AI analysis failed", http.StatusBadGateway)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Analysis " + time.Now().Format("2006-01-02 15:04")
	}
	id, err := s.store.SaveAnalysis(r.Context(), journal.Analysis{
		Title:     title,
		Prompt:    req.Prompt,
		Result:    result,
		RangeFrom: req.From,
		RangeTo:   req.To,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analysisId": id, "analysis": result})
}

func (s *Server) handleAnalysisByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/analyses/"), "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		a, err := s.store.GetAnalysis(r.Context(), id)
		if errors.Is(err, journal.ErrAnalysisNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"analysis": a})
	case http.MethodDelete:
		err := s.store.DeleteAnalysis(r.Context(), id)
		if errors.Is(err, journal.ErrAnalysisNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
