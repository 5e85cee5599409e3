package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// ListingImagesFolder is where dog listing photos are uploaded.
const ListingImagesFolder = "barkbox/listings"

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	UploadImage(ctx context.Context, file io.Reader, folder string) (string, error)
}

// uploadAPI is the slice of the Cloudinary upload API we use.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryImageStore uploads images to Cloudinary.
type CloudinaryImageStore struct {
	upload uploadAPI
	logger *zap.Logger
}

// NewCloudinaryImageStore initializes a Cloudinary client from credentials.
func NewCloudinaryImageStore(cloudName, apiKey, apiSecret string, logger *zap.Logger) (*CloudinaryImageStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	logger.Info("Cloudinary image store initialized", zap.String("cloudName", cloudName))
	return &CloudinaryImageStore{upload: &cld.Upload, logger: logger}, nil
}

// UploadImage uploads file into folder and returns the secure delivery URL.
func (s *CloudinaryImageStore) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	params := uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	}
	result, err := s.upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("no secure URL returned for upload")
	}
	s.logger.Debug("Image uploaded", zap.String("publicID", result.PublicID), zap.String("folder", folder))
	return result.SecureURL, nil
}

var _ ImageStore = (*CloudinaryImageStore)(nil)
