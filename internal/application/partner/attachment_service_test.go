package partner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type attachmentFixture struct {
	parties     *MockPartyRepository
	attachments *MockAttachmentRepository
	storage     *MockObjectStorage
	svc         *AttachmentService
	party       *partner.Party
}

func newAttachmentFixture(t *testing.T) *attachmentFixture {
	t.Helper()
	party, err := partner.NewParty(tenantID, "Paper Co", "", false, true)
	require.NoError(t, err)

	f := &attachmentFixture{
		parties:     new(MockPartyRepository),
		attachments: new(MockAttachmentRepository),
		storage:     new(MockObjectStorage),
		party:       party,
	}
	f.svc = NewAttachmentService(f.attachments, f.parties, f.storage, nil)
	f.svc.SetDownloadExpiry(15 * time.Minute)
	f.parties.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)
	return f
}

func TestAttachmentService_Upload(t *testing.T) {
	ctx := context.Background()
	expires := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("stores the object then the record", func(t *testing.T) {
		f := newAttachmentFixture(t)
		content := "%PDF-1.4 supplier contract"

		keyForParty := mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, tenantID.String()+"/parties/"+f.party.ID.String()+"/") &&
				strings.HasSuffix(key, "-contract.pdf")
		})
		f.storage.On("Upload", mock.Anything, keyForParty, []byte(content), "application/pdf").Return(nil)
		f.attachments.On("Create", mock.Anything, mock.AnythingOfType("*partner.Attachment")).Return(nil)
		f.storage.On("GenerateDownloadURL", mock.Anything, keyForParty, 15*time.Minute).
			Return("https://files.example.com/contract.pdf?sig=1", expires, nil)

		resp, err := f.svc.Upload(ctx, tenantID, f.party.ID, UploadAttachmentInput{
			FileName:    "../../contract.pdf",
			ContentType: "application/pdf; charset=binary",
			Size:        int64(len(content)),
			Content:     strings.NewReader(content),
		})
		require.NoError(t, err)
		assert.Equal(t, "contract.pdf", resp.FileName)
		assert.Equal(t, int64(len(content)), resp.FileSize)
		assert.Equal(t, "https://files.example.com/contract.pdf?sig=1", resp.DownloadURL)
		require.NotNil(t, resp.ExpiresAt)
		assert.True(t, resp.ExpiresAt.Equal(expires))
		f.storage.AssertExpectations(t)
	})

	t.Run("failed record removes the object", func(t *testing.T) {
		f := newAttachmentFixture(t)
		f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.attachments.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
		f.storage.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.Upload(ctx, tenantID, f.party.ID, UploadAttachmentInput{
			FileName:    "notes.txt",
			ContentType: "text/plain",
			Size:        5,
			Content:     strings.NewReader("hello"),
		})
		require.Error(t, err)
		f.storage.AssertCalled(t, "DeleteObject", mock.Anything, mock.Anything)
	})

	t.Run("rejects disallowed content types", func(t *testing.T) {
		f := newAttachmentFixture(t)
		_, err := f.svc.Upload(ctx, tenantID, f.party.ID, UploadAttachmentInput{
			FileName:    "run.exe",
			ContentType: "application/x-msdownload",
			Size:        4,
			Content:     strings.NewReader("MZ.."),
		})
		assert.True(t, errors.Is(err, shared.ErrValidation))
		f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown party", func(t *testing.T) {
		f := newAttachmentFixture(t)
		other := uuid.New()
		f.parties.On("FindByIDForTenant", mock.Anything, tenantID, other).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Upload(ctx, tenantID, other, UploadAttachmentInput{FileName: "a.txt", ContentType: "text/plain", Size: 1, Content: strings.NewReader("a")})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestAttachmentService_List_PresignFailureKeepsEntry(t *testing.T) {
	f := newAttachmentFixture(t)
	first, err := partner.NewAttachment(tenantID, f.party.ID, "a.pdf", 10, "application/pdf", nil)
	require.NoError(t, err)
	second, err := partner.NewAttachment(tenantID, f.party.ID, "b.png", 20, "image/png", nil)
	require.NoError(t, err)

	f.attachments.On("FindByParty", mock.Anything, tenantID, f.party.ID).Return([]partner.Attachment{*first, *second}, nil)
	f.storage.On("GenerateDownloadURL", mock.Anything, first.StorageKey, 15*time.Minute).Return("https://x/a", time.Now(), nil)
	f.storage.On("GenerateDownloadURL", mock.Anything, second.StorageKey, 15*time.Minute).Return("", time.Time{}, errors.New("signer unavailable"))

	items, err := f.svc.List(context.Background(), tenantID, f.party.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://x/a", items[0].DownloadURL)
	assert.Empty(t, items[1].DownloadURL)
	assert.Nil(t, items[1].ExpiresAt)
}
