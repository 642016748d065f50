package webserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ummah-scheduler/scheduler/src/meetings"
)

func (s *Server) scheduleMeeting(c *gin.Context) {
	var req meetings.ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := s.deps.Meetings.Propose(c.Request.Context(), req)
	if err != nil {
		respondErr(c, "schedule meeting", err)
		return
	}
	s.exportSnapshot(c)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Invite sent",
		"eventLink": p.EventLink,
		"eventId":   p.EventID,
		"meetLink":  p.MeetLink,
	})
}

func (s *Server) cancelMeeting(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Missing submission ID")
		return
	}
	res, err := s.deps.Meetings.Cancel(c.Request.Context(), req.ID)
	if err != nil {
		respondErr(c, "cancel meeting", err)
		return
	}
	s.exportSnapshot(c)
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Meeting for %s canceled.", res.StudentName),
		"remoteDeleted": res.RemoteDeleted,
	})
}
