package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ummah-scheduler/scheduler/src/api/types"
)

func (s *Server) logMessage(c *gin.Context) {
	var req struct {
		MentorEmail string `json:"mentorEmail" binding:"required"`
		StudentName string `json:"studentName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Missing fields")
		return
	}
	if err := s.deps.Store.LogAction(c.Request.Context(), req.MentorEmail, types.ActionMessage, "to "+req.StudentName); err != nil {
		respondErr(c, "log message", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) mentorActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	acts, err := s.deps.Store.Activity(c.Request.Context(), limit)
	if err != nil {
		respondErr(c, "mentor activity", err)
		return
	}
	if acts == nil {
		acts = []types.MentorAction{}
	}
	c.JSON(http.StatusOK, acts)
}
