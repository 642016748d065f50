package webserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ummah-scheduler/scheduler/src/meetings"
	"github.com/ummah-scheduler/scheduler/src/workflow"
)

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, meetings.ErrMissingFields), errors.Is(err, meetings.ErrInvalidTime):
		return http.StatusBadRequest
	case errors.Is(err, meetings.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, workflow.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondErr(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("webserver: %s: %v", op, err)
	}
	respondError(c, status, err.Error())
}

func jsonRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("webserver: panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
