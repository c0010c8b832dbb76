package partner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage is the blob store that holds attachment content
type ObjectStorage interface {
	// Upload stores data under storageKey
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL returns a presigned URL and its expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes an object; missing objects are not an error
	DeleteObject(ctx context.Context, storageKey string) error
}

// UploadAttachmentInput describes a file received from a multipart form
type UploadAttachmentInput struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
	UploadedBy  *uuid.UUID
}

// AttachmentService stores party attachments in object storage
type AttachmentService struct {
	attachments    partner.AttachmentRepository
	parties        partner.PartyRepository
	storage        ObjectStorage
	downloadExpiry time.Duration
	logger         *zap.Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(attachments partner.AttachmentRepository, parties partner.PartyRepository, storage ObjectStorage, logger *zap.Logger) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{
		attachments:    attachments,
		parties:        parties,
		storage:        storage,
		downloadExpiry: time.Hour,
		logger:         logger,
	}
}

// SetDownloadExpiry sets how long presigned download URLs stay valid
func (s *AttachmentService) SetDownloadExpiry(d time.Duration) {
	if d > 0 {
		s.downloadExpiry = d
	}
}

// Upload validates the file, writes it to storage and records it.
// The object is removed again if the record cannot be saved.
func (s *AttachmentService) Upload(ctx context.Context, tenantID, partyID uuid.UUID, in UploadAttachmentInput) (*AttachmentResponse, error) {
	if _, err := s.parties.FindByIDForTenant(ctx, tenantID, partyID); err != nil {
		return nil, notFound(err, "Party")
	}

	attachment, err := partner.NewAttachment(tenantID, partyID, in.FileName, in.Size, in.ContentType, in.UploadedBy)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(in.Content, partner.MaxAttachmentFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	if int64(len(data)) > partner.MaxAttachmentFileSize {
		return nil, shared.NewValidationError("INVALID_FILE_SIZE", "File exceeds the maximum attachment size")
	}
	attachment.FileSize = int64(len(data))

	if err := s.storage.Upload(ctx, attachment.StorageKey, data, attachment.ContentType); err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		if delErr := s.storage.DeleteObject(context.WithoutCancel(ctx), attachment.StorageKey); delErr != nil {
			s.logger.Warn("Failed to remove orphaned attachment object",
				zap.String("storage_key", attachment.StorageKey),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}

	s.logger.Info("Attachment uploaded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("party_id", partyID.String()),
		zap.String("attachment_id", attachment.ID.String()),
		zap.Int64("size", attachment.FileSize),
	)
	return s.withDownloadURL(ctx, attachment), nil
}

// List returns the party's attachments with presigned download URLs
func (s *AttachmentService) List(ctx context.Context, tenantID, partyID uuid.UUID) ([]AttachmentResponse, error) {
	if _, err := s.parties.FindByIDForTenant(ctx, tenantID, partyID); err != nil {
		return nil, notFound(err, "Party")
	}
	attachments, err := s.attachments.FindByParty(ctx, tenantID, partyID)
	if err != nil {
		return nil, err
	}

	responses := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		responses[i] = *s.withDownloadURL(ctx, &attachments[i])
	}
	return responses, nil
}

// DeleteAll removes every attachment of a party from storage and the database
func (s *AttachmentService) DeleteAll(ctx context.Context, tenantID, partyID uuid.UUID) error {
	attachments, err := s.attachments.FindByParty(ctx, tenantID, partyID)
	if err != nil {
		return err
	}
	for _, a := range attachments {
		if err := s.storage.DeleteObject(ctx, a.StorageKey); err != nil {
			return fmt.Errorf("failed to delete attachment object: %w", err)
		}
	}
	return s.attachments.DeleteByParty(ctx, tenantID, partyID)
}

// withDownloadURL leaves the link empty when presigning fails; the listing
// stays usable without it.
func (s *AttachmentService) withDownloadURL(ctx context.Context, a *partner.Attachment) *AttachmentResponse {
	resp := toAttachmentResponse(a)
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, a.StorageKey, s.downloadExpiry)
	if err != nil {
		s.logger.Warn("Failed to presign attachment download",
			zap.String("storage_key", a.StorageKey),
			zap.Error(err),
		)
		return resp
	}
	resp.DownloadURL = url
	resp.ExpiresAt = &expiresAt
	return resp
}
