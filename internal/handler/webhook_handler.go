package handler

import (
	"context"
	"net/http"

	"threadnest/internal/model"
	"threadnest/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CommunityMutator is the slice of CommunityService the webhook needs.
type CommunityMutator interface {
	CreateFromOrg(ctx context.Context, orgID, name, slug, image, createdBy string) (*model.Community, error)
	UpdateFromOrg(ctx context.Context, orgID, name, slug, image string) error
	DeleteByOrg(ctx context.Context, orgID string) error
	AddMember(ctx context.Context, orgID, memberID string) error
	RemoveMember(ctx context.Context, orgID, memberID string) error
}

// DeliveryLog suppresses redelivered webhook message ids. Release gives a
// claim back when the mutation behind it failed, so the provider's retry is
// processed instead of suppressed.
type DeliveryLog interface {
	FirstDelivery(ctx context.Context, messageID string) (bool, error)
	Release(ctx context.Context, messageID string) error
}

type WebhookHandler struct {
	verifier   *webhook.Verifier
	deliveries DeliveryLog
	svc        CommunityMutator
}

func NewWebhookHandler(verifier *webhook.Verifier, deliveries DeliveryLog, svc CommunityMutator) *WebhookHandler {
	return &WebhookHandler{
		verifier:   verifier,
		deliveries: deliveries,
		svc:        svc,
	}
}

// Handle receives identity-provider events. Order matters: nothing is
// dispatched before the signature checks out, and every branch answers —
// recognized mutations with 201, unrecognized types with a plain 200 ack.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid body"})
		return
	}

	heads := webhook.Headers{
		ID:        c.GetHeader(webhook.HeaderID),
		Timestamp: c.GetHeader(webhook.HeaderTimestamp),
		Signature: c.GetHeader(webhook.HeaderSignature),
	}
	if err := h.verifier.Verify(heads, body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid signature"})
		return
	}

	ctx := c.Request.Context()

	// Redelivery of a processed id is acknowledged without re-mutating.
	// Every mutation is idempotent, so a dead delivery log only costs
	// duplicate writes, never correctness.
	first, err := h.deliveries.FirstDelivery(ctx, heads.ID)
	if err != nil {
		log.Warn().Err(err).Str("svix_id", heads.ID).Msg("delivery log unavailable, processing anyway")
	} else if !first {
		c.JSON(http.StatusOK, gin.H{"msg": "already processed"})
		return
	}

	evt, err := webhook.Parse(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid payload"})
		return
	}

	switch evt.Type {
	case webhook.OrgCreated:
		data := evt.Created
		if _, err := h.svc.CreateFromOrg(ctx, data.ID, data.Name, data.Slug, data.Image(), data.CreatedBy); err != nil {
			h.internalError(c, heads.ID, evt, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"msg": "community created"})

	case webhook.InvitationCreated:
		log.Info().Str("svix_id", heads.ID).Msg("organization invitation created")
		c.JSON(http.StatusCreated, gin.H{"msg": "invitation acknowledged"})

	case webhook.MembershipCreated:
		data := evt.Membership
		if err := h.svc.AddMember(ctx, data.Organization.ID, data.PublicUserData.UserID); err != nil {
			h.internalError(c, heads.ID, evt, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"msg": "member added"})

	case webhook.MembershipDeleted:
		data := evt.Membership
		if err := h.svc.RemoveMember(ctx, data.Organization.ID, data.PublicUserData.UserID); err != nil {
			h.internalError(c, heads.ID, evt, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"msg": "member removed"})

	case webhook.OrgUpdated:
		data := evt.Updated
		if err := h.svc.UpdateFromOrg(ctx, data.ID, data.Name, data.Slug, data.LogoURL); err != nil {
			h.internalError(c, heads.ID, evt, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"msg": "community updated"})

	case webhook.OrgDeleted:
		if err := h.svc.DeleteByOrg(ctx, evt.Deleted.ID); err != nil {
			h.internalError(c, heads.ID, evt, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"msg": "community deleted"})

	default:
		log.Info().Str("type", string(evt.Type)).Msg("unhandled webhook event type")
		c.JSON(http.StatusOK, gin.H{"msg": "ignored"})
	}
}

// internalError answers 500 and gives the delivery claim back: the provider
// retries on 5xx, and that retry must run the mutation again rather than hit
// the already-processed branch.
func (h *WebhookHandler) internalError(c *gin.Context, msgID string, evt *webhook.Event, err error) {
	log.Error().Err(err).Str("type", string(evt.Type)).Msg("webhook mutation failed")
	if relErr := h.deliveries.Release(c.Request.Context(), msgID); relErr != nil {
		log.Warn().Err(relErr).Str("svix_id", msgID).Msg("claim release failed, redelivery will be suppressed")
	}
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
}
