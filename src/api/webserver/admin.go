package webserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) adminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email and password required"})
		return
	}
	ok, err := s.deps.Store.VerifyAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, "admin login", err)
		return
	}
	if !ok {
		log.Printf("webserver: failed admin login for %s from %s", req.Email, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}
	token, err := issueAdminToken(strings.ToLower(strings.TrimSpace(req.Email)), s.jwtSecret, s.now())
	if err != nil {
		respondErr(c, "admin token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}
