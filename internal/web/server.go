package web

import (
	"net/http"

	"tradelog/internal/analysis"
	"tradelog/internal/config"
	"tradelog/internal/content"
	"tradelog/internal/journal"
	"tradelog/internal/storage/fs"
)

type Server struct {
	cfg    config.Config
	store  *journal.Store
	images *fs.Store
	norm   *content.Normalizer
	san    *content.Sanitizer
	ai     *analysis.Client
	locker *fs.Locker
	mux    *http.ServeMux
	views  *Templates
}

func NewServer(cfg config.Config, store *journal.Store, images *fs.Store, ai *analysis.Client) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		images: images,
		norm:   content.NewNormalizer(images),
		san:    content.NewSanitizer(),
		ai:     ai,
		locker: fs.NewLocker(),
		mux:    http.NewServeMux(),
		views:  MustParseTemplates(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/entries", s.handleListEntries)
	s.mux.HandleFunc("/entries/", s.handleEntries)
	s.mux.HandleFunc("/analyses", s.handleAnalyses)
	s.mux.HandleFunc("/analyses/", s.handleAnalysisByID)
	s.mux.Handle("/uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.images.Root()))))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/entries", http.StatusSeeOther)
}
