package docstore

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vninvoice/internal/port"
	"vninvoice/mocks"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
}

func TestKeyUsesYearMonthLayout(t *testing.T) {
	store := NewWithClock(new(mocks.MockObjectStorage), "invoice-bucket", fixedNow)
	assert.Equal(t, "invoices/2025/06/ABC123.pdf", store.Key("ABC123"))
}

func TestSaveBase64(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "invoice-bucket" &&
			in.Key == "invoices/2025/06/FK1.pdf" &&
			in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "https://s3/invoices/2025/06/FK1.pdf"}, nil)

	store := NewWithClock(storage, "invoice-bucket", fixedNow)
	encoded := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))

	handle, err := store.SaveBase64(context.Background(), "FK1", encoded)
	require.NoError(t, err)
	require.NotNil(t, handle)
	assert.Equal(t, "invoice-bucket", handle.Bucket)
	assert.Equal(t, "invoices/2025/06/FK1.pdf", handle.Key)
	assert.Equal(t, "https://s3/invoices/2025/06/FK1.pdf", handle.Location)

	storage.AssertExpectations(t)
}

func TestSaveBase64UndecodablePayloadIsNotFatal(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	store := NewWithClock(storage, "invoice-bucket", fixedNow)

	handle, err := store.SaveBase64(context.Background(), "FK1", "!!not base64!!")
	assert.NoError(t, err)
	assert.Nil(t, handle)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestSaveBase64EmptyPayloadIsNotFatal(t *testing.T) {
	store := NewWithClock(new(mocks.MockObjectStorage), "invoice-bucket", fixedNow)

	handle, err := store.SaveBase64(context.Background(), "FK1", "")
	assert.NoError(t, err)
	assert.Nil(t, handle)
}
