package webserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"

	"github.com/ummah-scheduler/scheduler/src/api/config"
	"github.com/ummah-scheduler/scheduler/src/meetings"
	"github.com/ummah-scheduler/scheduler/src/workflow"
)

// Identity runs the browser OAuth flow. Callback URLs and scopes vary per
// login variant.
type Identity interface {
	AuthCodeURL(callbackURL string, scopes []string, state string) string
	Exchange(ctx context.Context, callbackURL string, scopes []string, code string) (*oauth2.Token, string, error)
}

// Deps are the collaborators the HTTP layer calls into.
type Deps struct {
	Store      *workflow.Store
	Reconciler *workflow.Reconciler
	Meetings   *meetings.Manager
	Sessions   meetings.SessionStore
	// Identity is nil when no OAuth client is configured; login routes then
	// answer 503.
	Identity Identity
}

type Server struct {
	cfg       config.Config
	deps      Deps
	states    *gocache.Cache
	jwtSecret []byte
	now       func() time.Time
}

func New(cfg config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), jsonRecovery())
	attachRoutes(r, newServer(cfg, deps))
	return r
}

func newServer(cfg config.Config, deps Deps) *Server {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = []byte(uuid.NewString() + uuid.NewString())
	}
	return &Server{
		cfg:       cfg,
		deps:      deps,
		states:    gocache.New(oauthStateTTL, time.Minute),
		jwtSecret: secret,
		now:       time.Now,
	}
}

func attachRoutes(r *gin.Engine, s *Server) {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range s.cfg.CORSOrigins {
		if o == "*" {
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowCredentials = false
		}
	}
	if !corsCfg.AllowAllOrigins {
		corsCfg.AllowOrigins = s.cfg.CORSOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Backend is running") })

	r.POST("/save-status", s.saveStatus)
	r.OPTIONS("/save-status", preflight)

	loginLimiter := NewRateLimiter(10, time.Minute)

	api := r.Group("/api")
	{
		api.GET("/submissions", s.listSubmissions)
		api.GET("/followup", s.listFollowUps)
		api.POST("/save-status", s.saveStatus)
		api.OPTIONS("/save-status", preflight)
		api.POST("/schedule-meeting", s.scheduleMeeting)
		api.OPTIONS("/schedule-meeting", preflight)
		api.POST("/log-message", s.logMessage)
		api.GET("/mentor-activity", s.mentorActivity)
		api.POST("/admin-login", RateLimitMiddleware(loginLimiter), s.adminLogin)
	}

	admin := r.Group("/")
	if s.cfg.RequireAdminToken {
		admin.Use(AdminMiddleware(s.jwtSecret))
	} else {
		log.Printf("webserver: REQUIRE_ADMIN_TOKEN is off, admin routes are open")
	}
	{
		admin.GET("/api/admin-submissions", s.listAdminSubmissions)
		admin.POST("/api/cancel-meeting", s.cancelMeeting)
		admin.GET("/auth/token", s.storedToken)
	}
	r.OPTIONS("/api/cancel-meeting", preflight)

	for name := range loginFlows {
		r.GET("/auth/"+name, s.login(name))
	}
	r.GET(mentorCallbackPath, s.oauthCallback)
	r.GET(adminCallbackPath, s.oauthCallback)
}

func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
