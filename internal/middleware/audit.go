package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"esls/api/internal/models"
)

// AuditRecorder persists one audit row per audited request.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditEntry) error
}

// Audit tags a route with a named action and persists who did what after the
// handler runs. Recording failures are logged, never surfaced to the caller.
func Audit(recorder AuditRecorder, log zerolog.Logger, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		actor := "anonymous"
		if user, ok := CurrentUser(c); ok {
			actor = user.Name
		}

		entry := models.AuditEntry{
			Actor:  actor,
			Action: action,
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Status: c.Writer.Status(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := recorder.Record(ctx, entry); err != nil {
			log.Warn().Err(err).Str("action", action).Msg("audit record failed")
		}
	}
}
