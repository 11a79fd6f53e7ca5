package handler

import (
	"errors"
	"net/http"

	"threadnest/internal/middleware"
	"threadnest/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type UserHandler struct {
	svc UserProvider
}

// OnboardReq 用户入驻请求体
type OnboardReq struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Name     string `json:"name" binding:"required,max=64"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

func NewUserHandler(svc UserProvider) *UserHandler {
	return &UserHandler{svc: svc}
}

// Onboarding reports the session user's onboarding state.
func (h *UserHandler) Onboarding(c *gin.Context) {
	subject := c.GetString(middleware.ContextSubjectKey)

	user, err := h.svc.Fetch(c.Request.Context(), subject)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"onboarded": user != nil && user.Onboarded,
		"user":      user,
	})
}

// Onboard 入驻接口: upserts the profile and flips the onboarded flag.
func (h *UserHandler) Onboard(c *gin.Context) {
	subject := c.GetString(middleware.ContextSubjectKey)

	var req OnboardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	user, err := h.svc.Onboard(c.Request.Context(), subject, req.Username, req.Name, req.Bio, req.Image)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
			return
		}
		log.Error().Err(err).Str("subject", subject).Msg("onboard failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"onboarded": user.Onboarded,
	})
}
