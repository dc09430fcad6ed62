package studio

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Rana718/roster/internal/models"
	"github.com/Rana718/roster/internal/studio/common"
)

const (
	// HeaderRole carries the caller's role, set by the fronting proxy.
	HeaderRole = "X-Roster-Role"
	// HeaderConsultant carries the consultant id for the consultant role.
	HeaderConsultant = "X-Roster-Consultant"
)

type Options struct {
	Port        int
	PageSize    int
	DebounceMS  int
	DefaultRole models.Role
	Logger      *zap.Logger
	Now         func() time.Time
}

type Server struct {
	app     *fiber.App
	service *Service
	port    int
	opts    Options
	log     *zap.Logger
}

func NewServer(store Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultRole == "" {
		opts.DefaultRole = models.RoleViewer
	}
	if opts.DebounceMS <= 0 {
		opts.DebounceMS = 300
	}

	server := &Server{
		app:     common.NewApp(TemplatesFS, opts.Logger),
		service: NewService(store, opts.PageSize),
		port:    opts.Port,
		opts:    opts,
		log:     opts.Logger,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	common.SetupStaticFS(s.app, StaticFS)
	s.app.Use(s.identify)

	// UI
	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/customers?page=1", fiber.StatusFound)
	})
	s.app.Get("/customers", s.handleCustomers)
	s.app.Get("/consultants", s.handleConsultants)
	s.app.Get("/export/:table", s.handleExport)

	// API
	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/dashboard", s.handleDashboard)
	api.Get("/customers", s.handleGetCustomers)
	api.Get("/consultants", s.handleGetConsultants)
	api.Delete("/customers/:id", s.handleDeleteCustomer)
}

// App exposes the Fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Start(openBrowser bool) error {
	return common.StartServer(s.app, &s.port, "studio", openBrowser)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

type viewer struct {
	Role         models.Role
	ConsultantID string
}

const localsViewer = "viewer"

func (s *Server) identify(c *fiber.Ctx) error {
	v := viewer{Role: s.opts.DefaultRole}
	if h := c.Get(HeaderRole); h != "" {
		v.Role = models.ParseRole(h)
	}
	v.ConsultantID = c.Get(HeaderConsultant)
	c.Locals(localsViewer, v)
	return c.Next()
}

func viewerOf(c *fiber.Ctx) viewer {
	v, _ := c.Locals(localsViewer).(viewer)
	if v.Role == "" {
		v.Role = models.RoleViewer
	}
	return v
}
