package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/cesta/internal/config"
	"github.com/dukerupert/cesta/internal/handler"
	"github.com/dukerupert/cesta/internal/metrics"
	"github.com/dukerupert/cesta/internal/middleware"
	"github.com/dukerupert/cesta/internal/receipt"
	"github.com/dukerupert/cesta/internal/shopping"
	"github.com/dukerupert/cesta/internal/store"
	"github.com/dukerupert/cesta/internal/voice"
	ws "github.com/dukerupert/cesta/internal/websocket"
)

type Server struct {
	cfg          *config.Config
	hub          *ws.Hub
	metrics      *metrics.Metrics
	svc          *shopping.Service
	authH        *handler.AuthHandler
	catalogH     *handler.CatalogHandler
	priceH       *handler.PriceHandler
	listH        *handler.ListHandler
	ticketH      *handler.TicketHandler
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(cfg *config.Config, db *sql.DB, logger *slog.Logger) *Server {
	m := metrics.New()

	hub := ws.NewHub(logger.With("component", "websocket"))
	hub.OnClientCount(m.SetClients)

	svc := shopping.New(
		shopping.WithLogger(logger.With("component", "shopping")),
		shopping.WithRecorder(m),
	)

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db, cfg.SessionTTL)

	return &Server{
		cfg:          cfg,
		hub:          hub,
		metrics:      m,
		svc:          svc,
		authH:        handler.NewAuthHandler(userStore, sessionStore, svc, cfg.CookieSecure, logger.With("component", "auth")),
		catalogH:     handler.NewCatalogHandler(svc, hub, logger.With("component", "catalog")),
		priceH:       handler.NewPriceHandler(svc, hub, logger.With("component", "price")),
		listH:        handler.NewListHandler(svc, userStore, voice.StubResolver{}, hub, logger.With("component", "list")),
		ticketH:      handler.NewTicketHandler(svc, receipt.NewStubParser(logger.With("component", "receipt")), hub, logger.With("component", "ticket")),
		userStore:    userStore,
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// Service returns the shopping service, for seeding.
func (s *Server) Service() *shopping.Service {
	return s.svc
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes (no auth required)
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.Handle("POST /api/register", s.rateLimited(s.authH.Register))
	mux.Handle("POST /api/login", s.rateLimited(s.authH.Login))

	// Protected routes share the mux so the matched pattern stays visible
	// to the metrics middleware.
	s.registerProtectedRoutes(func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAuth(s.sessionStore, s.userStore)(h))
	})

	var h http.Handler = mux
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	h = middleware.Metrics(s.metrics)(h)
	return h
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter, middleware.ByIP, s.cfg.LoginRateLimit, s.cfg.LoginRateWindow)(h)
}

func (s *Server) registerProtectedRoutes(handle func(string, http.HandlerFunc)) {
	// Identity
	handle("POST /api/logout", s.authH.Logout)
	handle("GET /api/me", s.authH.Me)
	handle("PUT /api/me", s.authH.UpdateMe)

	// Catalog
	handle("GET /api/categories", s.catalogH.ListCategories)
	handle("POST /api/categories", s.catalogH.CreateCategory)
	handle("GET /api/stores", s.catalogH.ListStores)
	handle("POST /api/stores", s.catalogH.CreateStore)
	handle("PUT /api/stores/{id}", s.catalogH.UpdateStore)
	handle("GET /api/products", s.catalogH.ListProducts)
	handle("POST /api/products", s.catalogH.CreateProduct)
	handle("GET /api/products/{id}", s.catalogH.GetProduct)
	handle("PUT /api/products/{id}", s.catalogH.UpdateProduct)
	handle("DELETE /api/products/{id}", s.catalogH.DeleteProduct)
	handle("POST /api/products/{id}/aliases", s.catalogH.AddAliases)

	// Price ledger
	handle("GET /api/products/{id}/prices", s.priceH.List)
	handle("POST /api/products/{id}/prices", s.priceH.Create)
	handle("GET /api/products/{id}/best-price", s.priceH.Best)
	handle("GET /api/products/{id}/store-options", s.priceH.StoreOptions)
	handle("PUT /api/prices/{id}", s.priceH.Update)
	handle("DELETE /api/prices/{id}", s.priceH.Delete)

	// Lists
	handle("GET /api/lists", s.listH.Lists)
	handle("POST /api/lists", s.listH.Create)
	handle("GET /api/lists/{list_id}", s.listH.Get)
	handle("PUT /api/lists/{list_id}", s.listH.Rename)
	handle("GET /api/lists/{list_id}/summary", s.listH.Summary)
	handle("POST /api/lists/{list_id}/clear", s.listH.Clear)
	handle("POST /api/lists/{list_id}/items", s.listH.AddItem)
	handle("POST /api/lists/{list_id}/items/select", s.listH.SelectStore)
	handle("POST /api/lists/{list_id}/items/decrement", s.listH.Decrement)
	handle("POST /api/lists/{list_id}/items/remove", s.listH.RemoveProduct)
	handle("PUT /api/lists/{list_id}/items/quantity", s.listH.SetQuantity)
	handle("DELETE /api/lists/{list_id}/items/{id}", s.listH.DeleteItem)
	handle("PUT /api/lists/{list_id}/items/{id}/status", s.listH.SetStatus)
	handle("POST /api/lists/{list_id}/items/{id}/toggle", s.listH.Toggle)
	handle("GET /api/lists/{list_id}/members", s.listH.Members)
	handle("POST /api/lists/{list_id}/members", s.listH.AddMember)
	handle("PUT /api/lists/{list_id}/members/{user_id}", s.listH.SetMemberRole)
	handle("DELETE /api/lists/{list_id}/members/{user_id}", s.listH.RemoveMember)
	handle("POST /api/lists/{list_id}/commands", s.listH.Command)
	handle("POST /api/lists/{list_id}/voice", s.listH.Voice)

	// Receipt tickets
	handle("POST /api/tickets", s.ticketH.Create)
	handle("GET /api/tickets/{id}", s.ticketH.Get)
	handle("PUT /api/tickets/{id}/store", s.ticketH.SetStore)
	handle("PUT /api/tickets/{id}/lines/{line_id}", s.ticketH.UpdateLine)
	handle("DELETE /api/tickets/{id}/lines/{line_id}", s.ticketH.DeleteLine)
	handle("POST /api/tickets/{id}/apply", s.ticketH.Apply)

	// Realtime
	handle("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
