package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"threadnest/internal/middleware"
	"threadnest/internal/model"
	"threadnest/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const homePageSize = 30

type ThreadProvider interface {
	Create(ctx context.Context, authorID, text string, orgID *string, parentID *uint64) (*model.Thread, error)
	List(ctx context.Context, page, size int) ([]model.Thread, bool, error)
	Get(ctx context.Context, id uint64) (*model.Thread, []model.Thread, error)
}

type ThreadHandler struct {
	svc   ThreadProvider
	users UserProvider
}

type CreateThreadReq struct {
	Text     string  `json:"text" binding:"required"`
	OrgID    *string `json:"org_id"`
	ParentID *uint64 `json:"parent_id"`
}

func NewThreadHandler(svc ThreadProvider, users UserProvider) *ThreadHandler {
	return &ThreadHandler{svc: svc, users: users}
}

// Home 首页帖子列表: GET /?page=N
func (h *ThreadHandler) Home(c *gin.Context) {
	if _, ok := requireOnboarded(c, h.users); !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	threads, isNext, err := h.svc.List(c.Request.Context(), page, homePageSize)
	if err != nil {
		log.Error().Err(err).Msg("thread list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"threads": threads,
		"isNext":  isNext,
		"page":    page,
	})
}

// Create 创建帖子接口
func (h *ThreadHandler) Create(c *gin.Context) {
	subject := c.GetString(middleware.ContextSubjectKey)

	if _, ok := requireOnboarded(c, h.users); !ok {
		return
	}

	var req CreateThreadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	thread, err := h.svc.Create(c.Request.Context(), subject, req.Text, req.OrgID, req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotMember):
			c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
		case errors.Is(err, service.ErrCommunityNotFound), errors.Is(err, service.ErrThreadNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		default:
			log.Error().Err(err).Msg("thread create failed")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": thread.ID})
}

// Get 帖子详情（含回复）
func (h *ThreadHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid thread id"})
		return
	}

	thread, replies, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrThreadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "thread not found"})
			return
		}
		log.Error().Err(err).Msg("thread fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"thread":  thread,
		"replies": replies,
	})
}
