package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"threadnest/internal/model"
	"threadnest/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const communityPageSize = 25

type CommunityProvider interface {
	List(ctx context.Context, page, size int, search string) ([]service.CommunitySummary, bool, error)
	Detail(ctx context.Context, orgID string) (*model.Community, []string, error)
}

type CommunityHandler struct {
	svc   CommunityProvider
	users UserProvider
}

func NewCommunityHandler(svc CommunityProvider, users UserProvider) *CommunityHandler {
	return &CommunityHandler{svc: svc, users: users}
}

// Communities 社区列表页: GET /communities?page=N&q=term
func (h *CommunityHandler) Communities(c *gin.Context) {
	if _, ok := requireOnboarded(c, h.users); !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	search := c.Query("q")

	communities, isNext, err := h.svc.List(c.Request.Context(), page, communityPageSize, search)
	if err != nil {
		log.Error().Err(err).Msg("community list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"communities": communities,
		"isNext":      isNext,
		"page":        page,
	})
}

// Detail 社区详情（含成员列表）
func (h *CommunityHandler) Detail(c *gin.Context) {
	orgID := c.Param("id")

	community, members, err := h.svc.Detail(c.Request.Context(), orgID)
	if err != nil {
		if errors.Is(err, service.ErrCommunityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "community not found"})
			return
		}
		log.Error().Err(err).Msg("community fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"community": community,
		"members":   members,
	})
}
