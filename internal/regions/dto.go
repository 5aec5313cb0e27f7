package regions

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	"github.com/temankemah/temankemah-backend/pkg/enums"
)

// Upload carries an incoming cover image from a multipart request.
type Upload struct {
	Filename string
	Contents io.Reader
}

// CreateRegionRequest proposes a new regional sub-community.
type CreateRegionRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`

	Cover *Upload `json:"-"`
}

// UpdateRegionRequest mutates a region's profile.
type UpdateRegionRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`

	Cover *Upload `json:"-"`
}

// SetMemberRoleRequest promotes or demotes a region member.
type SetMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member admin"`
}

// RegionDTO is the transport shape for one region.
type RegionDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	Status      enums.RegionStatus `json:"status"`
	CoverImage  *string            `json:"cover_image,omitempty"`
	CreatedBy   uuid.UUID          `json:"created_by"`
	MemberCount int64              `json:"member_count"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// MemberDTO is one membership row.
type MemberDTO struct {
	ID        uuid.UUID        `json:"id"`
	RegionID  uuid.UUID        `json:"region_id"`
	UserID    uuid.UUID        `json:"user_id"`
	Role      enums.RegionRole `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
}

func FromModel(r *models.Region) *RegionDTO {
	if r == nil {
		return nil
	}
	return &RegionDTO{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		CoverImage:  r.CoverImage,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func memberFromModel(m *models.RegionMember) *MemberDTO {
	return &MemberDTO{
		ID:        m.ID,
		RegionID:  m.RegionID,
		UserID:    m.UserID,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
