package partner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxAttachmentFileSize is the maximum allowed file size (20MB)
const MaxAttachmentFileSize = 20 * 1024 * 1024

var allowedAttachmentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"text/plain":      true,
	"text/csv":        true,
	"application/xml": true,
	"text/xml":        true,
}

// Attachment is a file (contract, registration form, ...) kept for a party
type Attachment struct {
	shared.TenantEntity
	PartyID     uuid.UUID `json:"party_id"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	StorageKey  string    `json:"storage_key"`
}

// NewAttachment validates and creates a party attachment record
func NewAttachment(tenantID, partyID uuid.UUID, fileName string, fileSize int64, contentType string, uploadedBy *uuid.UUID) (*Attachment, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PARTY", "Party ID cannot be empty")
	}
	fileName = strings.TrimSpace(filepath.Base(fileName))
	if fileName == "" || fileName == "." || fileName == string(filepath.Separator) {
		return nil, shared.NewValidationError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(fileName) > 255 {
		return nil, shared.NewValidationError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	if fileSize <= 0 {
		return nil, shared.NewValidationError("INVALID_FILE_SIZE", "File cannot be empty")
	}
	if fileSize > MaxAttachmentFileSize {
		return nil, shared.NewValidationError("INVALID_FILE_SIZE", fmt.Sprintf("File cannot exceed %d bytes", MaxAttachmentFileSize))
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !allowedAttachmentTypes[contentType] {
		return nil, shared.NewValidationError("INVALID_CONTENT_TYPE", fmt.Sprintf("Content type %q is not allowed", contentType))
	}

	a := &Attachment{
		TenantEntity: shared.NewTenantEntity(tenantID),
		PartyID:      partyID,
		FileName:     fileName,
		FileSize:     fileSize,
		ContentType:  contentType,
	}
	a.CreatedBy = uploadedBy
	a.StorageKey = fmt.Sprintf("%s/parties/%s/%s-%s", tenantID, partyID, a.ID, fileName)
	return a, nil
}
