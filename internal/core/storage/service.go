package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
)

// Service provides object storage with provider switching
type Service struct {
	provider     Provider
	providerName string
}

// NewService creates a new storage service
func NewService(provider Provider) *Service {
	return &Service{
		provider:     provider,
		providerName: provider.GetProviderName(),
	}
}

// Upload stores a binary payload using the configured provider
func (s *Service) Upload(ctx context.Context, file io.Reader, filename string, options *UploadOptions) (*UploadResult, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("storage provider not configured")
	}

	return s.provider.Upload(ctx, file, filename, options)
}

// UploadMultipart stores a file from a multipart form
func (s *Service) UploadMultipart(ctx context.Context, fileHeader *multipart.FileHeader, options *UploadOptions) (*UploadResult, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("storage provider not configured")
	}

	return s.provider.UploadMultipart(ctx, fileHeader, options)
}

// GetProviderName returns the current provider name
func (s *Service) GetProviderName() string {
	return s.providerName
}
