package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sportify-app/apiserver/config"
	"github.com/sportify-app/apiserver/internal/cache"
	"github.com/sportify-app/apiserver/internal/chart"
	"github.com/sportify-app/apiserver/internal/db"
	"github.com/sportify-app/apiserver/internal/handlers"
	"github.com/sportify-app/apiserver/internal/mq"
	"github.com/sportify-app/apiserver/internal/obslog"
	"github.com/sportify-app/apiserver/internal/services"
	"github.com/sportify-app/apiserver/internal/storage"
	"github.com/sportify-app/apiserver/internal/store"
	"github.com/sportify-app/apiserver/internal/store/memory"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Services groups the use-cases served over HTTP.
type Services struct {
	Users   *services.UserService
	Matches *services.MatchService
	Stats   *services.StatService
	Events  *services.EventService
	Admin   *services.AdminService
	Charts  *services.ChartService
}

// Repositories is the persistence layer behind Services.
type Repositories struct {
	Users   services.UserRepository
	Matches services.MatchRepository
	Stats   services.StatRepository
	Events  services.EventRepository
	Admin   services.AdminRepository
}

// MemoryRepositories backs every repository with one in-process store.
func MemoryRepositories(st *memory.Store) Repositories {
	return Repositories{
		Users:   st.Users(),
		Matches: st.Matches(),
		Stats:   st.Stats(),
		Events:  st.Events(),
		Admin:   st.Admin(),
	}
}

// NewServices wires the use-cases over repos. Charts are rendered inline
// and uncached until a cache or store is attached.
func NewServices(repos Repositories, notifier services.Notifier, logger *zap.Logger) Services {
	return Services{
		Users:   services.NewUserService(repos.Users),
		Matches: services.NewMatchService(repos.Matches, notifier, logger),
		Stats:   services.NewStatService(repos.Stats),
		Events:  services.NewEventService(repos.Events),
		Admin:   services.NewAdminService(repos.Admin, logger),
		Charts:  services.NewChartService(chart.NewRenderer(0, 0), logger),
	}
}

// NewRouter mounts every route on a chi router.
func NewRouter(svc Services, jwtSecret string, logger *zap.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		obslog.RequestLogger(logger),
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	router.Get("/healthz", handlers.Healthz)
	router.Get("/", handlers.Welcome)
	router.Route("/api", func(r chi.Router) {
		handlers.AuthRouter(r, svc.Users, jwtSecret)
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, svc.Users)
		})
		r.Route("/match", func(r chi.Router) {
			handlers.MatchRouter(r, svc.Matches)
		})
		r.Route("/stats", func(r chi.Router) {
			handlers.StatRouter(r, svc.Stats, svc.Charts)
		})
		r.Route("/events", func(r chi.Router) {
			handlers.EventRouter(r, svc.Events)
		})
		r.Route("/admin", func(r chi.Router) {
			handlers.AdminRouter(r, svc.Admin)
		})
	})
	return router
}

// Server wraps the HTTP server, its router and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	reminder   *services.Reminder
	logger     *zap.Logger
	closers    []func() error
}

// New builds a Server from cfg. Optional collaborators (broker, Redis,
// object storage) are only connected when configured.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := obslog.L()
	s := &Server{logger: logger}

	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	repos, err := s.openRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notifier := services.NopNotifier()
	broker, err := mq.NewFromConfig(ctx, cfg.Broker)
	if err != nil {
		s.close()
		return nil, err
	}
	if broker != nil {
		s.closers = append(s.closers, broker.Close)
		notifier = services.NewBrokerNotifier(broker, cfg.Broker.Channel)
	}

	svc := NewServices(repos, notifier, logger)

	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			s.close()
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		svc.Charts.WithCache(cache.NewChartCache(client, cfg.Redis.ChartTTL))
	}

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		s.close()
		return nil, err
	}
	if objects != nil {
		s.closers = append(s.closers, objects.Close)
		svc.Charts.WithStore(objects)
	}

	if cfg.Reminder.Enabled && broker != nil {
		s.reminder = services.NewReminder(repos.Matches, notifier, cfg.Reminder.Interval, cfg.Reminder.Lead, logger)
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.router = NewRouter(svc, jwtSecret, logger)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) openRepositories(ctx context.Context, cfg config.Config) (Repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		s.logger.Warn("using in-memory store; data is lost on restart")
		return MemoryRepositories(memory.New()), nil
	case config.StoreDriverPostgres, "":
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return Repositories{}, fmt.Errorf("open database: %w", err)
		}
		s.closers = append(s.closers, conn.Close)
		return Repositories{
			Users:   store.NewUserRepository(conn),
			Matches: store.NewMatchRepository(conn),
			Stats:   store.NewStatRepository(conn),
			Events:  store.NewEventRepository(conn),
			Admin:   store.NewAdminRepository(conn),
		}, nil
	default:
		return Repositories{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the reminder job, if any, and serves HTTP until Shutdown.
func (s *Server) Start() error {
	if s.reminder != nil {
		if err := s.reminder.Start(); err != nil {
			return fmt.Errorf("start reminder: %w", err)
		}
	}

	s.logger.Info("listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and releases every resource.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if s.reminder != nil {
		if stopErr := s.reminder.Stop(); stopErr != nil {
			s.logger.Warn("stop reminder", zap.Error(stopErr))
		}
	}
	s.close()
	return err
}

func (s *Server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("close resource", zap.Error(err))
		}
	}
	s.closers = nil
}
