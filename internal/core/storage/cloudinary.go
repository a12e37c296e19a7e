package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryProvider implements object storage on Cloudinary
type CloudinaryProvider struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewCloudinaryProvider creates a new Cloudinary provider
func NewCloudinaryProvider(cloudName, apiKey, apiSecret string) (*CloudinaryProvider, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryProvider{
		cld:       cld,
		cloudName: cloudName,
	}, nil
}

// Upload stores a binary payload on Cloudinary
func (p *CloudinaryProvider) Upload(ctx context.Context, file io.Reader, filename string, options *UploadOptions) (*UploadResult, error) {
	options = MergeOptions(options)

	overwrite := false
	params := uploader.UploadParams{
		Folder:       options.Folder,
		ResourceType: "image",
		Overwrite:    &overwrite,
	}
	if options.PublicID != "" {
		params.PublicID = options.PublicID
	}

	result, err := p.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}

	return &UploadResult{
		URL:       result.URL,
		SecureURL: result.SecureURL,
		FileName:  filename,
		Size:      int64(result.Bytes),
		Format:    result.Format,
		PublicID:  result.PublicID,
	}, nil
}

// UploadMultipart stores a file from a multipart form on Cloudinary
func (p *CloudinaryProvider) UploadMultipart(ctx context.Context, fileHeader *multipart.FileHeader, options *UploadOptions) (*UploadResult, error) {
	options = MergeOptions(options)

	// Validate MIME type
	if len(options.AllowedTypes) > 0 {
		allowed := false
		for _, allowedType := range options.AllowedTypes {
			if fileHeader.Header.Get("Content-Type") == allowedType {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("file type not allowed: %s", fileHeader.Header.Get("Content-Type"))
		}
	}

	// Validate file size
	if options.MaxSize > 0 && fileHeader.Size > options.MaxSize {
		return nil, fmt.Errorf("file size exceeds maximum allowed size: %d bytes", options.MaxSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return p.Upload(ctx, file, fileHeader.Filename, options)
}

// GetProviderName returns the provider name
func (p *CloudinaryProvider) GetProviderName() string {
	return "Cloudinary"
}
