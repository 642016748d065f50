package webserver

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ummah-scheduler/scheduler/src/api/types"
	"github.com/ummah-scheduler/scheduler/src/meetings"
)

const (
	oauthStateTTL      = 10 * time.Minute
	mentorCallbackPath = "/oauth2callback"
	adminCallbackPath  = "/oauth2callback-admin"
)

type loginFlow struct {
	callback string
	scopes   []string
	// landing is the frontend route the browser returns to.
	landing         string
	storeCredential bool
	admin           bool
}

var loginFlows = map[string]loginFlow{
	"login":         {callback: mentorCallbackPath, scopes: meetings.CalendarScopes, landing: "/schedule-confirm", storeCredential: true},
	"login-message": {callback: mentorCallbackPath, scopes: meetings.ProfileScopes, landing: "/message"},
	"login-basic":   {callback: mentorCallbackPath, scopes: meetings.ProfileScopes, landing: "/dashboard"},
	"admin-login":   {callback: adminCallbackPath, scopes: meetings.ProfileScopes, landing: "/admin", admin: true},
}

func (s *Server) login(name string) gin.HandlerFunc {
	flow := loginFlows[name]
	return func(c *gin.Context) {
		if s.deps.Identity == nil {
			respondError(c, http.StatusServiceUnavailable, "Google OAuth is not configured")
			return
		}
		state := uuid.NewString()
		s.states.SetDefault(state, name)
		c.Redirect(http.StatusFound, s.deps.Identity.AuthCodeURL(s.cfg.BackendURL+flow.callback, flow.scopes, state))
	}
}

func (s *Server) oauthCallback(c *gin.Context) {
	if s.deps.Identity == nil {
		respondError(c, http.StatusServiceUnavailable, "Google OAuth is not configured")
		return
	}
	state := c.Query("state")
	v, ok := s.states.Get(state)
	if !ok || state == "" {
		respondError(c, http.StatusBadRequest, "invalid or expired login state")
		return
	}
	s.states.Delete(state)
	flow := loginFlows[v.(string)]
	if flow.callback != c.FullPath() {
		respondError(c, http.StatusBadRequest, "login state does not match callback")
		return
	}
	if e := c.Query("error"); e != "" {
		respondError(c, http.StatusBadRequest, "authorization denied: "+e)
		return
	}
	code := c.Query("code")
	if code == "" {
		respondError(c, http.StatusBadRequest, "missing authorization code")
		return
	}

	ctx := c.Request.Context()
	tok, email, err := s.deps.Identity.Exchange(ctx, s.cfg.BackendURL+flow.callback, flow.scopes, code)
	if err != nil {
		log.Printf("webserver: oauth callback: %v", err)
		respondError(c, http.StatusBadRequest, "Failed to get user email")
		return
	}

	if flow.admin {
		if !s.cfg.IsAdminAllowed(email) {
			log.Printf("webserver: %s is not on the admin allow-list", email)
			respondError(c, http.StatusForbidden, "not an approved admin")
			return
		}
		token, err := issueAdminToken(email, s.jwtSecret, s.now())
		if err != nil {
			respondErr(c, "admin token", err)
			return
		}
		c.Redirect(http.StatusFound, s.frontendURL(flow.landing, url.Values{"email": {email}, "token": {token}}))
		return
	}

	if flow.storeCredential {
		if err := s.deps.Sessions.Put(ctx, meetings.CredentialFromToken(email, tok, flow.scopes)); err != nil {
			respondErr(c, "store credential", err)
			return
		}
	}
	if err := s.deps.Store.LogAction(ctx, email, types.ActionLogin, ""); err != nil {
		log.Printf("webserver: warning: could not log login for %s: %v", email, err)
	}
	c.Redirect(http.StatusFound, s.frontendURL(flow.landing, url.Values{"email": {email}}))
}

func (s *Server) frontendURL(path string, q url.Values) string {
	return s.cfg.FrontendURL + path + "?" + q.Encode()
}

func (s *Server) storedToken(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondError(c, http.StatusBadRequest, "email required")
		return
	}
	cred, ok, err := s.deps.Sessions.Get(c.Request.Context(), email)
	if err != nil {
		respondErr(c, "stored token", err)
		return
	}
	if !ok {
		respondError(c, http.StatusNotFound, "No credentials found")
		return
	}
	c.JSON(http.StatusOK, cred)
}
