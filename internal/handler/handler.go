package handler

import (
	"context"
	"net/http"

	"threadnest/internal/middleware"
	"threadnest/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UserProvider is the slice of UserService the page handlers need.
type UserProvider interface {
	Fetch(ctx context.Context, subjectID string) (*model.User, error)
	Onboard(ctx context.Context, subjectID, username, name, bio, image string) (*model.User, error)
}

// requireOnboarded resolves the session subject to a local user. A missing
// or not-yet-onboarded user is redirected to the onboarding flow; content
// handlers proceed only when ok is true.
func requireOnboarded(c *gin.Context, users UserProvider) (*model.User, bool) {
	subject := c.GetString(middleware.ContextSubjectKey)

	user, err := users.Fetch(c.Request.Context(), subject)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return nil, false
	}
	if user == nil || !user.Onboarded {
		c.Redirect(http.StatusFound, "/onboarding")
		c.Abort()
		return nil, false
	}
	return user, true
}
