package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/storage"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type memoryUploadRecords struct {
	records map[string]model.Upload
}

func newMemoryUploadRecords() *memoryUploadRecords {
	return &memoryUploadRecords{records: map[string]model.Upload{}}
}

func (m *memoryUploadRecords) Create(_ context.Context, u model.Upload) error {
	m.records[u.ID] = u
	return nil
}

func (m *memoryUploadRecords) FindByID(_ context.Context, id string) (model.Upload, error) {
	u, ok := m.records[id]
	if !ok {
		return model.Upload{}, apierror.NotFound("upload not found", id)
	}
	return u, nil
}

func (m *memoryUploadRecords) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

func pngBytes(t *testing.T, width int, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadServiceUpload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	allowed := []string{"image/jpeg", "image/png"}

	t.Run("png upload stores original plus thumbnail", func(t *testing.T) {
		store := &storage.MockStorage{}
		store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "products/") && strings.HasSuffix(key, ".png")
		}), "image/png", mock.Anything, mock.Anything).Return(nil).Once()
		store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "products/thumbs/") && strings.HasSuffix(key, ".jpg")
		}), "image/jpeg", mock.Anything, mock.Anything).Return(nil).Once()
		store.On("PublicURL", mock.Anything).Return("https://cdn.example.com/object")

		records := newMemoryUploadRecords()
		svc := NewUploadService(store, records, allowed, 300)

		upload, err := svc.Upload(ctx, "a1", "photo.png", bytes.NewReader(pngBytes(t, 800, 600)))
		require.NoError(t, err)
		require.NotEmpty(t, upload.ID)
		require.Equal(t, "image/png", upload.MimeType)
		require.NotEmpty(t, upload.ThumbnailKey)
		require.Len(t, records.records, 1)
		store.AssertExpectations(t)
	})

	t.Run("disallowed MIME type is rejected before any storage write", func(t *testing.T) {
		store := &storage.MockStorage{}
		svc := NewUploadService(store, newMemoryUploadRecords(), allowed, 300)

		_, err := svc.Upload(ctx, "a1", "notes.txt", strings.NewReader("plain text, not an image"))
		require.Error(t, err)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnsupportedMediaType, apiErr.HTTPStatus)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("extension spoofing does not bypass the sniff", func(t *testing.T) {
		store := &storage.MockStorage{}
		svc := NewUploadService(store, newMemoryUploadRecords(), allowed, 300)

		_, err := svc.Upload(ctx, "a1", "script.png", strings.NewReader("#!/bin/sh\necho pwned"))
		require.Error(t, err)
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		svc := NewUploadService(&storage.MockStorage{}, newMemoryUploadRecords(), allowed, 300)

		_, err := svc.Upload(ctx, "a1", "empty.png", strings.NewReader(""))
		require.Error(t, err)
	})
}

func TestUploadServiceDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("removes both objects and the record", func(t *testing.T) {
		store := &storage.MockStorage{}
		store.On("Delete", mock.Anything, "products/abc.png").Return(nil).Once()
		store.On("Delete", mock.Anything, "products/thumbs/abc.jpg").Return(nil).Once()

		records := newMemoryUploadRecords()
		records.records["abc"] = model.Upload{
			ID:           "abc",
			Key:          "products/abc.png",
			ThumbnailKey: "products/thumbs/abc.jpg",
		}

		svc := NewUploadService(store, records, nil, 300)
		require.NoError(t, svc.Delete(ctx, "abc"))
		require.Empty(t, records.records)
		store.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := NewUploadService(&storage.MockStorage{}, newMemoryUploadRecords(), nil, 300)
		require.Error(t, svc.Delete(ctx, "missing"))
	})
}
