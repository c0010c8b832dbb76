package partner

import (
	"time"

	"github.com/finerp/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// =============================================================================
// Party DTOs
// =============================================================================

// CreatePartyRequest represents a request to create a client and/or supplier
type CreatePartyRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=200"`
	TradeName  string `json:"trade_name" binding:"max=200"`
	Document   string `json:"document" binding:"max=20"`
	Email      string `json:"email" binding:"omitempty,email,max=200"`
	Phone      string `json:"phone" binding:"max=50"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"omitempty,len=2"`
	IsClient   bool   `json:"is_client"`
	IsSupplier bool   `json:"is_supplier"`
	Notes      string `json:"notes" binding:"max=2000"`
}

// UpdatePartyRequest represents a partial update of a party
type UpdatePartyRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=200"`
	TradeName  *string `json:"trade_name" binding:"omitempty,max=200"`
	Document   *string `json:"document" binding:"omitempty,max=20"`
	Email      *string `json:"email" binding:"omitempty,email,max=200"`
	Phone      *string `json:"phone" binding:"omitempty,max=50"`
	City       *string `json:"city" binding:"omitempty,max=100"`
	State      *string `json:"state" binding:"omitempty,len=2"`
	IsClient   *bool   `json:"is_client"`
	IsSupplier *bool   `json:"is_supplier"`
	Active     *bool   `json:"active"`
	Notes      *string `json:"notes" binding:"omitempty,max=2000"`
}

// PartyResponse represents a party in API responses
type PartyResponse struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Name       string    `json:"name"`
	TradeName  string    `json:"trade_name,omitempty"`
	Document   string    `json:"document,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	IsClient   bool      `json:"is_client"`
	IsSupplier bool      `json:"is_supplier"`
	Active     bool      `json:"active"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int       `json:"version"`
}

// PartyListFilter defines filtering options for party list queries
type PartyListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// =============================================================================
// Contact DTOs
// =============================================================================

// CreateContactRequest represents a request to add a contact to a party
type CreateContactRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Role    string `json:"role" binding:"max=100"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Primary bool   `json:"primary"`
}

// ContactResponse represents a party contact in API responses
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	PartyID   uuid.UUID `json:"party_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Primary   bool      `json:"primary"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// Attachment DTOs
// =============================================================================

// AttachmentResponse represents an attachment with a time-limited download link
type AttachmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	PartyID     uuid.UUID  `json:"party_id"`
	FileName    string     `json:"file_name"`
	FileSize    int64      `json:"file_size"`
	ContentType string     `json:"content_type"`
	DownloadURL string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toPartyResponse(p *partner.Party) *PartyResponse {
	return &PartyResponse{
		ID:         p.ID,
		TenantID:   p.TenantID,
		Name:       p.Name,
		TradeName:  p.TradeName,
		Document:   p.Document,
		Email:      p.Email,
		Phone:      p.Phone,
		City:       p.City,
		State:      p.State,
		IsClient:   p.IsClient,
		IsSupplier: p.IsSupplier,
		Active:     p.Active,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		Version:    p.Version,
	}
}

func toAttachmentResponse(a *partner.Attachment) *AttachmentResponse {
	return &AttachmentResponse{
		ID:          a.ID,
		PartyID:     a.PartyID,
		FileName:    a.FileName,
		FileSize:    a.FileSize,
		ContentType: a.ContentType,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
	}
}

func toContactResponse(c *partner.Contact) *ContactResponse {
	return &ContactResponse{
		ID:        c.ID,
		PartyID:   c.PartyID,
		Name:      c.Name,
		Role:      c.Role,
		Email:     c.Email,
		Phone:     c.Phone,
		Primary:   c.Primary,
		CreatedAt: c.CreatedAt,
	}
}
