package webhook

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidPayload = errors.New("invalid webhook payload")

type EventType string

const (
	OrgCreated        EventType = "organization.created"
	OrgUpdated        EventType = "organization.updated"
	OrgDeleted        EventType = "organization.deleted"
	InvitationCreated EventType = "organizationInvitation.created"
	MembershipCreated EventType = "organizationMembership.created"
	MembershipDeleted EventType = "organizationMembership.deleted"
)

var validate = validator.New()

// OrgCreatedData is the payload of organization.created. The provider sends
// the logo under logo_url or image_url depending on event version.
type OrgCreatedData struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Slug      string `json:"slug" validate:"required"`
	LogoURL   string `json:"logo_url"`
	ImageURL  string `json:"image_url"`
	CreatedBy string `json:"created_by" validate:"required"`
}

// Image resolves the logo_url/image_url split.
func (d *OrgCreatedData) Image() string {
	if d.LogoURL != "" {
		return d.LogoURL
	}
	return d.ImageURL
}

type OrgUpdatedData struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Slug    string `json:"slug" validate:"required"`
	LogoURL string `json:"logo_url" validate:"required"`
}

type OrgDeletedData struct {
	ID string `json:"id" validate:"required"`
}

type MembershipData struct {
	Organization struct {
		ID string `json:"id" validate:"required"`
	} `json:"organization" validate:"required"`
	PublicUserData struct {
		UserID string `json:"user_id" validate:"required"`
	} `json:"public_user_data" validate:"required"`
}

// Event is the tagged union produced by Parse: Type is always set and
// exactly one payload pointer is non-nil for recognized mutation events.
type Event struct {
	Type       EventType
	Created    *OrgCreatedData
	Updated    *OrgUpdatedData
	Deleted    *OrgDeletedData
	Membership *MembershipData
}

type envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Parse decodes a verified body into a typed event and validates the fields
// the mutation needs. Unknown event types parse fine (Type only); a known
// type with missing or malformed fields fails with ErrInvalidPayload.
func Parse(body []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, ErrInvalidPayload
	}
	if env.Type == "" {
		return nil, ErrInvalidPayload
	}

	evt := &Event{Type: env.Type}
	switch env.Type {
	case OrgCreated:
		var data OrgCreatedData
		if err := decode(env.Data, &data); err != nil {
			return nil, err
		}
		if data.Image() == "" {
			return nil, ErrInvalidPayload
		}
		evt.Created = &data
	case OrgUpdated:
		var data OrgUpdatedData
		if err := decode(env.Data, &data); err != nil {
			return nil, err
		}
		evt.Updated = &data
	case OrgDeleted:
		var data OrgDeletedData
		if err := decode(env.Data, &data); err != nil {
			return nil, err
		}
		evt.Deleted = &data
	case MembershipCreated, MembershipDeleted:
		var data MembershipData
		if err := decode(env.Data, &data); err != nil {
			return nil, err
		}
		evt.Membership = &data
	}
	return evt, nil
}

func decode(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return ErrInvalidPayload
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return ErrInvalidPayload
	}
	if err := validate.Struct(out); err != nil {
		return ErrInvalidPayload
	}
	return nil
}
