package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logical buckets. The design flow and the concierge chat never share keys.
const (
	FolderDesignAssets = "design-assets"
	FolderAttachments  = "conversation-attachments"
)

// UploadResult represents the result of a stored object
type UploadResult struct {
	URL       string `json:"url"`        // Public URL to access the file
	SecureURL string `json:"secure_url"` // HTTPS URL (for Cloudinary)
	FileName  string `json:"file_name"`  // Original filename
	Size      int64  `json:"size"`       // File size in bytes
	Format    string `json:"format"`     // File extension/format
	PublicID  string `json:"public_id"`  // Provider-specific identifier
}

// UploadOptions represents upload configuration options
type UploadOptions struct {
	Folder       string   `json:"folder"`        // Folder/bucket to upload to
	PublicID     string   `json:"public_id"`     // Custom public ID
	AllowedTypes []string `json:"allowed_types"` // Allowed MIME types
	MaxSize      int64    `json:"max_size"`      // Max file size in bytes
}

// Provider defines the interface for object storage providers
type Provider interface {
	// Upload stores a binary payload and returns a stable public reference
	Upload(ctx context.Context, file io.Reader, filename string, options *UploadOptions) (*UploadResult, error)

	// UploadMultipart stores a file from a multipart form
	UploadMultipart(ctx context.Context, fileHeader *multipart.FileHeader, options *UploadOptions) (*UploadResult, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// DefaultUploadOptions returns default upload options
func DefaultUploadOptions() *UploadOptions {
	return &UploadOptions{
		Folder:       FolderDesignAssets,
		AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"},
		MaxSize:      10 * 1024 * 1024, // 10MB
	}
}

// MergeOptions merges custom options with defaults
func MergeOptions(custom *UploadOptions) *UploadOptions {
	defaults := DefaultUploadOptions()

	if custom == nil {
		return defaults
	}

	if custom.Folder != "" {
		defaults.Folder = custom.Folder
	}
	if custom.PublicID != "" {
		defaults.PublicID = custom.PublicID
	}
	if len(custom.AllowedTypes) > 0 {
		defaults.AllowedTypes = custom.AllowedTypes
	}
	if custom.MaxSize > 0 {
		defaults.MaxSize = custom.MaxSize
	}

	return defaults
}

// NewObjectKey builds a collision-free object key: prefix + timestamp +
// random suffix. Objects are never overwritten in place, so uniqueness here
// is all the storage layer needs.
func NewObjectKey(prefix string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s/%d-%s", prefix, time.Now().UnixMilli(), suffix)
}
