package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dojo/internal/adapters/email"
	"dojo/internal/adapters/http/flash"
	"dojo/internal/adapters/http/metrics"
	"dojo/internal/adapters/http/middleware"
	"dojo/internal/adapters/http/perf"
	"dojo/internal/adapters/storage"
	accountStore "dojo/internal/adapters/storage/account"
	childStore "dojo/internal/adapters/storage/child"
	childclassStore "dojo/internal/adapters/storage/childclass"
	parentnoteStore "dojo/internal/adapters/storage/parentnote"
	progressStore "dojo/internal/adapters/storage/progress"
	requestStore "dojo/internal/adapters/storage/request"
	shiftStore "dojo/internal/adapters/storage/shift"
	techniqueStore "dojo/internal/adapters/storage/technique"
)

// Stores holds one SQLite store per concept, all sharing a Querier.
type Stores struct {
	Users      *accountStore.SQLiteStore
	Children   *childStore.SQLiteStore
	Techniques *techniqueStore.SQLiteStore
	Progress   *progressStore.SQLiteStore
	Shifts     *shiftStore.SQLiteStore
	Requests   *requestStore.SQLiteStore
	Notes      *parentnoteStore.SQLiteStore
	Classes    *childclassStore.SQLiteStore
}

// NewStores builds every store over q, which may be the pool or a transaction.
func NewStores(q storage.Querier) Stores {
	return Stores{
		Users:      accountStore.NewSQLiteStore(q),
		Children:   childStore.NewSQLiteStore(q),
		Techniques: techniqueStore.NewSQLiteStore(q),
		Progress:   progressStore.NewSQLiteStore(q),
		Shifts:     shiftStore.NewSQLiteStore(q),
		Requests:   requestStore.NewSQLiteStore(q),
		Notes:      parentnoteStore.NewSQLiteStore(q),
		Classes:    childclassStore.NewSQLiteStore(q),
	}
}

// Config wires the server's collaborators. Zero values get working defaults
// except DB, CSRFKey and Flashes, which are required.
type Config struct {
	DB             storage.SQLDB
	Flashes        *flash.Store
	CSRFKey        []byte
	Secure         bool // production: TLS-only cookies and strict CSRF referer checks
	TrustedOrigins []string
	RateLimit      int // requests per second per IP
	SlowRequestMs  int
	Collector      *perf.Collector
	Metrics        *metrics.Metrics
	Sender         email.Sender
	Now            func() time.Time
	GenerateID     func() string
}

// Server holds the HTTP layer's dependencies.
type Server struct {
	cfg      Config
	db       storage.SQLDB
	stores   Stores
	sessions *middleware.SessionStore
	flashes  *flash.Store
	metrics  *metrics.Metrics
	sender   email.Sender
	pages    map[string]*template.Template
	now      func() time.Time
	newID    func() string
}

// New validates cfg, fills defaults and parses templates.
// PRE: cfg.DB, cfg.Flashes and a 32-byte cfg.CSRFKey are set
// POST: returns a ready Server or the first configuration error
func New(cfg Config) (*Server, error) {
	if cfg.DB == nil {
		return nil, errors.New("web: DB is required")
	}
	if cfg.Flashes == nil {
		return nil, errors.New("web: flash store is required")
	}
	if len(cfg.CSRFKey) != 32 {
		return nil, errors.New("web: CSRF key must be 32 bytes")
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Sender == nil {
		cfg.Sender = email.NewNoopSender()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.GenerateID == nil {
		cfg.GenerateID = uuid.NewString
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	middleware.SecureCookies = cfg.Secure
	return &Server{
		cfg:      cfg,
		db:       cfg.DB,
		stores:   NewStores(cfg.DB),
		sessions: middleware.NewSessionStore(),
		flashes:  cfg.Flashes,
		metrics:  cfg.Metrics,
		sender:   cfg.Sender,
		pages:    pages,
		now:      cfg.Now,
		newID:    cfg.GenerateID,
	}, nil
}

// Handler returns the routed mux wrapped in the middleware chain.
// ctx bounds background work such as rate limiter cleanup.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	limiter := middleware.NewRateLimiter(ctx, s.cfg.RateLimit, time.Second)

	// Applied inside out: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(s.cfg.CSRFKey, s.cfg.Secure, s.cfg.TrustedOrigins),
		middleware.Auth(s.sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(s.cfg.Collector, s.cfg.SlowRequestMs),
	)
}
