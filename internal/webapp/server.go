package webapp

// The web view is the server-rendered replacement for the old static
// pages: every page is produced from the same controllers and renderer
// the CLI uses, with the gateway doing all the talking to the API.

import (
	"fmt"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"agriport/internal/api"
	"agriport/internal/config"
	"agriport/internal/gateway"
	"agriport/internal/session"
)

type Server struct {
	cfg      *config.Config
	client   *api.Client
	sessions session.Store
	logger   zerolog.Logger
	router   *gin.Engine
}

func NewServer(cfg *config.Config, logger zerolog.Logger) *Server {
	// the web view keeps sessions in-process, one per server
	sessions := session.NewMemoryStore()
	gw := gateway.New(gateway.Config{
		BaseURL:           cfg.APIURL,
		AuthScheme:        cfg.AuthScheme,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		RequestBurst:      cfg.RequestBurst,
	}, sessions, nil, logger)

	s := &Server{
		cfg:      cfg,
		client:   api.NewClient(gw),
		sessions: sessions,
		logger:   logger.With().Str("component", "webapp").Logger(),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(s.requestLogger(), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("pages").Parse(pageSource)))

	r.GET("/login", s.LoginForm)
	r.POST("/login", s.Login)
	r.GET("/logout", s.Logout)

	authed := r.Group("/", s.requireSession())
	{
		authed.GET("/", s.redirectToDashboard)
		authed.GET("/dashboard", s.Dashboard)
		authed.GET("/notifications", s.Notifications)
		authed.POST("/notifications/:id/read", s.MarkNotificationRead)
		authed.POST("/notifications/read-all", s.MarkAllNotificationsRead)
		authed.GET("/products", s.Products)
		authed.GET("/messages", s.Conversations)
		authed.GET("/messages/:id", s.Conversation)
		authed.POST("/messages/:id/send", s.SendMessage)
	}

	return r
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.WebAppPort)
	s.logger.Info().Str("addr", addr).Msg("web view listening")
	return s.router.Run(addr)
}

func (s *Server) redirectToDashboard(c *gin.Context) {
	c.Redirect(302, "/dashboard")
}
