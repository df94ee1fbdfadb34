package model

import "time"

// Upload records an object stored in the image bucket so deletes can clean
// up both the original and its thumbnail.
type Upload struct {
	ID           string    `json:"id"`
	Key          string    `json:"key"`
	ThumbnailKey string    `json:"thumbnailKey,omitempty"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	UploadedBy   string    `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}
