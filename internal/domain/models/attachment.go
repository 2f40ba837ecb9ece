package models

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"
)

// imageContentTypes are the content types classified as images.
var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type Attachment struct {
	ID          string    `json:"id" db:"id"`
	DocumentID  string    `json:"document_id" db:"document_id"`
	FileKey     string    `json:"-" db:"file_key"` // storage key, e.g. attachments/<slug>/<filename>
	Name        string    `json:"name" db:"name"`  // display name, defaults to file base name
	FileSize    int64     `json:"file_size" db:"file_size"`
	ContentType string    `json:"content_type" db:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// Extension returns the lowercased file extension of the stored file,
// including the leading dot.
func (a Attachment) Extension() string {
	return strings.ToLower(path.Ext(a.FileKey))
}

// IsImage reports whether the attachment is an image by content type.
func (a Attachment) IsImage() bool {
	return imageContentTypes[a.ContentType]
}

// IsPDF reports whether the attachment is a PDF.
func (a Attachment) IsPDF() bool {
	return a.ContentType == "application/pdf"
}

// HumanSize formats the file size in binary units with one decimal place,
// scaling B through TB.
func (a Attachment) HumanSize() string {
	size := float64(a.FileSize)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", size)
}

// MarshalJSON adds the derived human-readable size to the wire format.
func (a Attachment) MarshalJSON() ([]byte, error) {
	type alias Attachment
	return json.Marshal(struct {
		alias
		SizeDisplay string `json:"file_size_display"`
	}{alias(a), a.HumanSize()})
}
