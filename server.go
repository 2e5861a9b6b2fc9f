package main

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"codenav/rag"
)

//go:embed web/index.html
var pageHTML string

var pageTmpl = template.Must(template.New("index").Parse(pageHTML))

type pageData struct {
	APIKey    string
	Directory string
	Query     string
	Ready     bool
	Answer    string
	Sources   []string
	Error     string
}

// Server is the single-page web form. It keeps the most recently built index
// and handles one request at a time.
type Server struct {
	logger     *zap.Logger
	defaultDir string
	build      indexBuilder

	mu       sync.Mutex
	cacheKey string
	index    asker
}

func NewServer(logger *zap.Logger, defaultDir string, build indexBuilder) *Server {
	return &Server{
		logger:     logger,
		defaultDir: defaultDir,
		build:      build,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/", s.indexHandler)
	return mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "ok")
}

// GET / renders the empty form; POST / loads the codebase once both the key
// and the directory are present, then answers the query if there is one.
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.render(w, pageData{Directory: s.defaultDir})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "failed to parse form", http.StatusBadRequest)
			return
		}
		s.render(w, s.handleForm(r))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleForm(r *http.Request) pageData {
	page := pageData{
		APIKey:    strings.TrimSpace(r.PostFormValue("api_key")),
		Directory: strings.TrimSpace(r.PostFormValue("directory")),
		Query:     strings.TrimSpace(r.PostFormValue("query")),
	}
	if page.APIKey == "" || page.Directory == "" {
		return page
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.indexFor(r, page.APIKey, page.Directory)
	if err != nil {
		page.Error = describe(err)
		return page
	}
	page.Ready = true
	if page.Query == "" {
		return page
	}

	ans, err := idx.Ask(r.Context(), page.Query)
	if err != nil {
		s.logger.Error("failed to answer question", zap.String("query", page.Query), zap.Error(err))
		page.Error = describe(err)
		return page
	}
	page.Answer = ans.Text
	page.Sources = ans.SourcePaths()
	return page
}

// indexFor returns the memoized index for the key and directory pair,
// building it on first use. Failed builds are not cached. Callers hold s.mu.
func (s *Server) indexFor(r *http.Request, apiKey, dir string) (asker, error) {
	key := apiKey + "\x00" + dir
	if s.index != nil && s.cacheKey == key {
		return s.index, nil
	}
	idx, err := s.build(r.Context(), apiKey, dir)
	if err != nil {
		s.logger.Error("failed to build the index", zap.String("directory", dir), zap.Error(err))
		return nil, err
	}
	s.index, s.cacheKey = idx, key
	return idx, nil
}

func (s *Server) render(w http.ResponseWriter, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, page); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
	}
}

func describe(err error) string {
	if errors.Is(err, rag.ErrNoDocuments) {
		return noDocumentsMessage
	}
	return err.Error()
}
