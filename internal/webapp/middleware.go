package webapp

import (
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs each page request with timing.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// requireSession sends anonymous visitors to the login page.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.sessions.IsActive() {
			c.Redirect(302, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
