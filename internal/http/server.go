package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/cache"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/core"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/ledger"
	appweb "github.com/Samarth-170904/EcotrackCarbonFootprintTracker/web"
)

type Server struct {
	http.Server
	templates *template.Template
	writer    ledger.ActivityWriter
	lister    ledger.ActivityLister
	summaries ledger.SummaryReader

	rateLimiter *rateLimiter
	metrics     *securityMetrics
	appMetrics  appMetrics

	summaryCache *cache.LRUCache[core.MonthSummary]
	itemsCache   *cache.LRUCache[[]core.Activity]

	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

type appMetrics struct {
	totalActivities int64
	cacheHits       int64
	cacheMisses     int64
	startedAt       time.Time
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, w ledger.ActivityWriter, l ledger.ActivityLister, sr ledger.SummaryReader) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		writer:       w,
		lister:       l,
		summaries:    sr,
		rateLimiter:  newRateLimiter(),
		metrics:      &securityMetrics{},
		appMetrics:   appMetrics{startedAt: time.Now()},
		summaryCache: cache.NewLRUCache[core.MonthSummary](100, 5*time.Minute),
		itemsCache:   cache.NewLRUCache[[]core.Activity](200, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.itemsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/activities", s.withSecurityHeaders(s.handleCreateActivity))
	// UI partials
	mux.HandleFunc("/ui/month-summary", s.withSecurityHeaders(s.handleMonthSummary))
	mux.HandleFunc("/ui/history", s.withSecurityHeaders(s.handleHistory))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit writes only
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) cacheKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

// invalidateMonth drops cached aggregates and listings after a write.
// Listings can span filters, so the items cache is purged wholesale.
func (s *Server) invalidateMonth(year, month int) {
	s.summaryCache.Delete(s.cacheKey(year, month))
	s.itemsCache.Purge()
}

func (s *Server) getSummary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	key := s.cacheKey(year, month)

	if data, found := s.summaryCache.Get(key); found {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		slog.DebugContext(ctx, "Summary cache hit", "year", year, "month", month)
		return data, nil
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	// Small timeout to avoid hanging partials
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	data, err := s.summaries.ReadMonthSummary(cctx, year, month)
	if err != nil {
		return core.MonthSummary{}, err
	}

	s.summaryCache.Set(key, data)
	slog.DebugContext(ctx, "Summary cached", "year", year, "month", month,
		"total_grams", data.Total.Grams, "categories", len(data.ByCategory))
	return data, nil
}

func (s *Server) getActivities(ctx context.Context, f ledger.ActivityFilter) ([]core.Activity, error) {
	key := s.cacheKey(f.Year, f.Month) + "/" + string(f.Category) + "/" + strconv.Itoa(f.Limit)

	if items, found := s.itemsCache.Get(key); found {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		// Return a copy to prevent external mutation
		result := make([]core.Activity, len(items))
		copy(result, items)
		return result, nil
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.lister.ListActivities(cctx, f)
	if err != nil {
		return nil, err
	}

	s.itemsCache.Set(key, items)
	return items, nil
}
