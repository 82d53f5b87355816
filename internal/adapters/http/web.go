package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	exportAdapter "rollcall/internal/adapters/export"
	"rollcall/internal/adapters/http/middleware"
	"rollcall/internal/application/listutil"
	"rollcall/internal/application/orchestrators"
	"rollcall/internal/application/session"
	"rollcall/internal/domain/attendance"
)

//go:embed templates/* static/*
var assets embed.FS

// Stores holds all storage dependencies.
type Stores struct {
	RosterStore     orchestrators.RosterStore
	AttendanceStore orchestrators.AttendanceStore
	ThemeStore      orchestrators.ThemeStore
}

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	StudentCount   int
	PageSize       int
	CSRFKey        []byte // 32 bytes; a random key is generated when empty
	SecureCookies  bool
	TrustedOrigins []string
	SlowRequest    time.Duration
	Writers        []orchestrators.SheetWriter // nil means DefaultWriters
	Now            func() time.Time
	Health         func(ctx context.Context) error // checked by /healthz when set
}

// DefaultWriters returns the CSV, PDF and XLSX writers.
func DefaultWriters() []orchestrators.SheetWriter {
	return []orchestrators.SheetWriter{
		exportAdapter.NewCSVWriter(),
		exportAdapter.NewPDFWriter(),
		exportAdapter.NewXLSXWriter(),
	}
}

// Server owns the attendance session and serves the single-screen UI.
// INVARIANT: every read or mutation of state happens under mu
type Server struct {
	mu     sync.Mutex
	state  *session.State
	stores Stores
	opts   Options
	pages  *pages
}

// NewServer loads the roster, theme, and today's attendance and returns a
// ready server.
// PRE: stores are non-nil
// POST: state holds a non-empty roster with a complete map for today
func NewServer(ctx context.Context, stores Stores, opts Options) (*Server, error) {
	if stores.RosterStore == nil || stores.AttendanceStore == nil || stores.ThemeStore == nil {
		return nil, errors.New("all stores are required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PageSize < 1 {
		opts.PageSize = listutil.DefaultPerPage
	}
	if opts.Writers == nil {
		opts.Writers = DefaultWriters()
	}
	if len(opts.CSRFKey) == 0 {
		key, err := middleware.LoadCSRFKey("", false)
		if err != nil {
			return nil, err
		}
		opts.CSRFKey = key
	}

	p, err := loadPages(assets)
	if err != nil {
		return nil, err
	}

	r, err := orchestrators.ExecuteLoadRoster(ctx, orchestrators.LoadRosterInput{StudentCount: opts.StudentCount},
		orchestrators.LoadRosterDeps{RosterStore: stores.RosterStore})
	if err != nil {
		return nil, err
	}

	now := opts.Now()
	today := now.Format(attendance.DateLayout)
	m, loadErr := orchestrators.ExecuteLoadAttendance(ctx, orchestrators.LoadAttendanceInput{Date: today, Roster: r},
		orchestrators.LoadAttendanceDeps{AttendanceStore: stores.AttendanceStore})

	st := session.New(r, today, m, opts.PageSize)
	st.Theme = orchestrators.ExecuteLoadTheme(ctx, orchestrators.ThemeDeps{ThemeStore: stores.ThemeStore})
	if loadErr != nil {
		st.Notify(session.MsgLoadFailed, session.NoticeError, now)
	}

	s := &Server{state: st, stores: stores, opts: opts, pages: p}
	s.refreshSavedDates(ctx)

	slog.Info("session_event", "event", "session_ready", "date", today, "students", len(r), "theme", string(st.Theme))
	return s, nil
}

// Handler wires routes and middleware.
// Middleware order (outer to inner): Timing -> CSRF -> SecurityHeaders -> mux
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	static, _ := fs.Sub(assets, "static")
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	s.registerRoutes(mux)

	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(s.opts.CSRFKey, middleware.CSRFOptions{
			Secure:         s.opts.SecureCookies,
			TrustedOrigins: s.opts.TrustedOrigins,
		}),
		middleware.Timing(s.opts.SlowRequest),
	)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/view", s.handleView)
	mux.HandleFunc("/students/toggle", s.handleToggle)
	mux.HandleFunc("/students/mark", s.handleMark)
	mux.HandleFunc("/attendance/all", s.handleMarkAll)
	mux.HandleFunc("/attendance/invert", s.handleInvert)
	mux.HandleFunc("/attendance/save", s.handleSave)
	mux.HandleFunc("/attendance/date", s.handleDate)
	mux.HandleFunc("/attendance/meta", s.handleMeta)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/page", s.handlePage)
	mux.HandleFunc("/jump", s.handleJump)
	mux.HandleFunc("/theme/toggle", s.handleThemeToggle)
	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/help", s.handleHelp)
	mux.HandleFunc("/healthz", s.handleHealthz)
}

// refreshSavedDates reloads the quick-link dates. Failures keep the old list.
// PRE: caller holds mu or has exclusive access
func (s *Server) refreshSavedDates(ctx context.Context) {
	dates, err := orchestrators.ExecuteListSavedDates(ctx, orchestrators.ListSavedDatesDeps{AttendanceStore: s.stores.AttendanceStore})
	if err != nil {
		slog.Warn("attendance_event", "event", "saved_dates_failed", "error", err)
		return
	}
	s.state.SavedDates = dates
}
