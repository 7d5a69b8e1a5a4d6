package server

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/genomepuzzle/site/internal/cache"
	"github.com/genomepuzzle/site/internal/config"
	"github.com/genomepuzzle/site/internal/dataset"
	"github.com/genomepuzzle/site/internal/logging"
	"github.com/genomepuzzle/site/internal/metrics"
	"github.com/genomepuzzle/site/internal/site"
)

// AssetPrefix is where embedded stylesheets are mounted.
const AssetPrefix = "/_genome/"

// HeaderVersion carries the server version on rendered pages.
const HeaderVersion = "X-Genome-Version"

// Server is the GenomePuzzle HTTP server.
type Server struct {
	cfg     *config.Config
	version string
	pages   *site.Renderer
	assets  fs.FS
	public  *cache.Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
	router  chi.Router
}

// New creates a server. assets holds the embedded stylesheets and public
// the files served from the site root (the dataset manifest and download
// scripts). A nil logger uses slog.Default().
func New(cfg *config.Config, version string, assets, public fs.FS, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pages, err := site.NewRenderer(site.Typeface{
		Family:   cfg.FontFamily,
		Provider: cfg.FontProvider,
	}, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		version: version,
		pages:   pages,
		assets:  assets,
		public:  cache.New(public, cfg.CacheTTL, cfg.CacheMaxSize),
		metrics: metrics.New(),
		logger:  logger,
		router:  chi.NewRouter(),
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(s.logger, routePattern, requestID))
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.Get("/", s.handleHome)
	r.Get("/about", s.handleAbout)
	r.Get("/assembly", s.handleAssembly)
	r.Get("/healthz", s.handleHealthz)
	if s.cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Get(AssetPrefix+"*", s.handleAsset)
	r.Get("/{file}", s.handlePublic)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)
}

// Handler returns the server's HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	details := s.currentDataset(r)
	s.writePage(w, r, http.StatusOK, "home", func() ([]byte, error) {
		return s.pages.RenderHome(details)
	})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, "about", s.pages.RenderAbout)
}

func (s *Server) handleAssembly(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AssemblyURL == "" {
		s.handleNotFound(w, r)
		return
	}
	http.Redirect(w, r, s.cfg.AssemblyURL, http.StatusFound)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusNotFound, "not_found", func() ([]byte, error) {
		return s.pages.RenderNotFound(r.URL.Path)
	})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusMethodNotAllowed, "error", func() ([]byte, error) {
		return s.pages.RenderError(http.StatusMethodNotAllowed, r.Method+" is not supported here.")
	})
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if !fs.ValidPath(name) {
		s.handleNotFound(w, r)
		return
	}
	data, err := fs.ReadFile(s.assets, name)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

func (s *Server) handlePublic(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	file, status, err := s.public.Read(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrInvalid) {
			logging.FromContext(r.Context()).Error("read public file failed", "file", name, "error", err)
			s.writePage(w, r, http.StatusInternalServerError, "error", func() ([]byte, error) {
				return s.pages.RenderError(http.StatusInternalServerError, "The file could not be read.")
			})
			return
		}
		s.handleNotFound(w, r)
		return
	}
	s.metrics.PublicFileReadsTotal.WithLabelValues(string(status)).Inc()

	w.Header().Set(logging.HeaderCache, string(status))
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, name, file.ModTime, bytes.NewReader(file.Data))
}

// currentDataset loads the published manifest, or nil when there is none.
func (s *Server) currentDataset(r *http.Request) *dataset.FileDetails {
	file, _, err := s.public.Read(dataset.DetailsFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.FromContext(r.Context()).Warn("read dataset manifest failed", "error", err)
		}
		return nil
	}
	details, err := dataset.DecodeDetails(file.Data)
	if err != nil {
		logging.FromContext(r.Context()).Warn("dataset manifest unreadable", "error", err)
		return nil
	}
	return details
}

// writePage renders a full document and writes it with status. page labels
// the render in metrics.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, page string, render func() ([]byte, error)) {
	start := time.Now()
	body, err := render()
	if err != nil {
		logging.FromContext(r.Context()).Error("render page failed", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.metrics.PageRendersTotal.WithLabelValues(page).Inc()

	setSecurityHeaders(w)
	w.Header().Set(HeaderVersion, s.version)
	w.Header().Set(logging.HeaderRenderMs, strconv.FormatInt(time.Since(start).Milliseconds(), 10))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write(body)
}

func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("X-Frame-Options", "DENY")
}

// observe records request counts and latency by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(routePattern(r), status, time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

