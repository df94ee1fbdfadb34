package service

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/storage"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

const uploadKeyPrefix = "products/"

// uploadRecords is the persistence surface the service needs from the
// uploads repository.
type uploadRecords interface {
	Create(ctx context.Context, u model.Upload) error
	FindByID(ctx context.Context, id string) (model.Upload, error)
	Delete(ctx context.Context, id string) error
}

type UploadService struct {
	store            storage.ObjectStorage
	uploads          uploadRecords
	allowedMIMETypes map[string]struct{}
	thumbnailWidth   int
}

func NewUploadService(store storage.ObjectStorage, uploads uploadRecords, allowedMIMETypes []string, thumbnailWidth int) *UploadService {
	allowed := make(map[string]struct{}, len(allowedMIMETypes))
	for _, mimeType := range allowedMIMETypes {
		trimmed := strings.TrimSpace(strings.ToLower(mimeType))
		if trimmed == "" {
			continue
		}
		allowed[trimmed] = struct{}{}
	}

	if thumbnailWidth <= 0 {
		thumbnailWidth = 300
	}

	return &UploadService{
		store:            store,
		uploads:          uploads,
		allowedMIMETypes: allowed,
		thumbnailWidth:   thumbnailWidth,
	}
}

// Upload sniffs the content type, stores the original plus a scaled
// thumbnail in the image bucket and records both keys.
func (s *UploadService) Upload(ctx context.Context, uploadedBy string, filename string, reader io.Reader) (model.Upload, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return model.Upload{}, err
	}
	if len(data) == 0 {
		return model.Upload{}, apierror.BadRequest("uploaded file is empty", filename)
	}

	detectedMIME := http.DetectContentType(data[:min(len(data), 512)])
	if !s.isAllowedMIME(detectedMIME) {
		return model.Upload{}, apierror.New("UNSUPPORTED_TYPE", "file MIME type is not allowed", detectedMIME, http.StatusUnsupportedMediaType)
	}

	id := uuid.NewString()
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = extensionForMIME(detectedMIME)
	}
	key := uploadKeyPrefix + id + ext

	if err := s.store.Put(ctx, key, detectedMIME, bytes.NewReader(data), int64(len(data))); err != nil {
		return model.Upload{}, err
	}

	record := model.Upload{
		ID:         id,
		Key:        key,
		URL:        s.store.PublicURL(key),
		MimeType:   detectedMIME,
		Size:       int64(len(data)),
		UploadedBy: uploadedBy,
		CreatedAt:  time.Now().UTC(),
	}

	// Thumbnail generation is best effort: an undecodable but allowed
	// image still uploads, it just has no thumbnail.
	if thumb, thumbErr := s.makeThumbnail(data); thumbErr == nil {
		thumbKey := uploadKeyPrefix + "thumbs/" + id + ".jpg"
		if err := s.store.Put(ctx, thumbKey, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err == nil {
			record.ThumbnailKey = thumbKey
			record.ThumbnailURL = s.store.PublicURL(thumbKey)
		}
	}

	if err := s.uploads.Create(ctx, record); err != nil {
		return model.Upload{}, err
	}
	return record, nil
}

// Delete removes the original object, its thumbnail and the tracking row.
func (s *UploadService) Delete(ctx context.Context, id string) error {
	record, err := s.uploads.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, record.Key); err != nil {
		return err
	}
	if record.ThumbnailKey != "" {
		if err := s.store.Delete(ctx, record.ThumbnailKey); err != nil {
			return err
		}
	}

	return s.uploads.Delete(ctx, id)
}

func (s *UploadService) isAllowedMIME(mimeType string) bool {
	if len(s.allowedMIMETypes) == 0 {
		return strings.HasPrefix(mimeType, "image/")
	}

	base := strings.TrimSpace(strings.ToLower(mimeType))
	if idx := strings.Index(base, ";"); idx >= 0 {
		base = strings.TrimSpace(base[:idx])
	}

	_, ok := s.allowedMIMETypes[base]
	return ok
}

func (s *UploadService) makeThumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	if bounds.Dx() <= s.thumbnailWidth {
		// Small originals pass through re-encoded without scaling.
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 85}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	height := bounds.Dy() * s.thumbnailWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, s.thumbnailWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func extensionForMIME(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".bin"
}
