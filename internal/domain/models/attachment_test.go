package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAttachment_HumanSize(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		expected string
	}{
		{name: "bytes", size: 512, expected: "512.0 B"},
		{name: "zero", size: 0, expected: "0.0 B"},
		{name: "exactly one kilobyte", size: 1024, expected: "1.0 KB"},
		{name: "kilobytes with fraction", size: 1536, expected: "1.5 KB"},
		{name: "megabytes", size: 5 * 1024 * 1024, expected: "5.0 MB"},
		{name: "gigabytes", size: 2 * 1024 * 1024 * 1024, expected: "2.0 GB"},
		{name: "terabytes", size: 3 * 1024 * 1024 * 1024 * 1024, expected: "3.0 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Attachment{FileSize: tt.size}
			if got := a.HumanSize(); got != tt.expected {
				t.Errorf("HumanSize() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAttachment_TypeClassification(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantImage   bool
		wantPDF     bool
	}{
		{name: "jpeg", contentType: "image/jpeg", wantImage: true},
		{name: "png", contentType: "image/png", wantImage: true},
		{name: "webp", contentType: "image/webp", wantImage: true},
		{name: "pdf", contentType: "application/pdf", wantPDF: true},
		{name: "svg is not classified as image", contentType: "image/svg+xml"},
		{name: "plain text", contentType: "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Attachment{ContentType: tt.contentType}
			if got := a.IsImage(); got != tt.wantImage {
				t.Errorf("IsImage() = %v, want %v", got, tt.wantImage)
			}
			if got := a.IsPDF(); got != tt.wantPDF {
				t.Errorf("IsPDF() = %v, want %v", got, tt.wantPDF)
			}
		})
	}
}

func TestAttachment_Extension(t *testing.T) {
	tests := []struct {
		name     string
		fileKey  string
		expected string
	}{
		{name: "lowercases", fileKey: "doc-1/Diagram.PNG", expected: ".png"},
		{name: "no extension", fileKey: "doc-1/README", expected: ""},
		{name: "multiple dots", fileKey: "doc-1/archive.tar.gz", expected: ".gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Attachment{FileKey: tt.fileKey}
			if got := a.Extension(); got != tt.expected {
				t.Errorf("Extension() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAttachment_MarshalJSON(t *testing.T) {
	a := Attachment{
		ID:          "att-1",
		DocumentID:  "doc-1",
		FileKey:     "doc-1/report.pdf",
		Name:        "report.pdf",
		FileSize:    2048,
		ContentType: "application/pdf",
	}

	payload, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	body := string(payload)
	if !strings.Contains(body, `"file_size_display":"2.0 KB"`) {
		t.Errorf("payload missing derived size display: %s", body)
	}
	if strings.Contains(body, "file_key") || strings.Contains(body, "doc-1/report.pdf") {
		t.Errorf("storage key must not leak into the wire format: %s", body)
	}
}
