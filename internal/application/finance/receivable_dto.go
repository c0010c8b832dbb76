package finance

import (
	"time"

	"github.com/finerp/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateReceivableRequest represents a request to create an account receivable
type CreateReceivableRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=200"`
	ClientID    *uuid.UUID      `json:"client_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"250.00"`
	DueDate     *Date           `json:"due_date" binding:"required" swaggertype:"string" format:"date" example:"2026-11-10"`
	Remark      string          `json:"remark" binding:"max=1000"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// UpdateReceivableRequest represents a direct edit of an account receivable.
// Status RECEIVED without received_date settles on the current day.
type UpdateReceivableRequest struct {
	Description  *string          `json:"description" binding:"omitempty,min=1,max=200"`
	ClientID     *uuid.UUID       `json:"client_id"`
	Amount       *decimal.Decimal `json:"amount" binding:"omitempty,gt=0" swaggertype:"string" example:"250.00"`
	DueDate      *Date            `json:"due_date" swaggertype:"string" format:"date" example:"2026-11-10"`
	Status       *string          `json:"status" binding:"omitempty,oneof=PENDING RECEIVED CANCELLED OVERDUE"`
	ReceivedDate *Date            `json:"received_date" swaggertype:"string" format:"date" example:"2026-11-12"`
	Remark       *string          `json:"remark" binding:"omitempty,max=1000"`
}

// ReceiveRequest settles a receivable. A missing date means today.
type ReceiveRequest struct {
	ReceivedDate *Date `json:"received_date" swaggertype:"string" format:"date" example:"2026-11-12"`
}

// ReceivableResponse represents an account receivable in API responses
type ReceivableResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Description string          `json:"description"`
	ClientID    *uuid.UUID      `json:"client_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	ReceivedAt  *time.Time      `json:"received_at,omitempty"`
	Status      string          `json:"status"`
	Remark      string          `json:"remark,omitempty"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ReceivableListFilter defines filtering options for receivable list queries
type ReceivableListFilter struct {
	Search string `form:"search"`
	ClientID *uuid.UUID `form:"-"` // parsed by the handler
	Status   string     `form:"status" binding:"omitempty,oneof=PENDING RECEIVED CANCELLED OVERDUE"`
	DueFrom  *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo    *time.Time `form:"due_to" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
}

func toReceivableResponse(ar *finance.AccountReceivable) *ReceivableResponse {
	return &ReceivableResponse{
		ID:          ar.ID,
		TenantID:    ar.TenantID,
		Description: ar.Description,
		ClientID:    ar.ClientID,
		Amount:      ar.Amount,
		DueDate:     ar.DueDate,
		ReceivedAt:  ar.ReceivedAt,
		Status:      string(ar.Status),
		Remark:      ar.Remark,
		CreatedBy:   ar.CreatedBy,
		CreatedAt:   ar.CreatedAt,
		UpdatedAt:   ar.UpdatedAt,
		Version:     ar.Version,
	}
}
