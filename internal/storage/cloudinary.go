package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ObjectStore persists image bytes and hands back durable public URLs.
type ObjectStore interface {
	// UploadImage stores the raw image and returns its public URL.
	UploadImage(ctx context.Context, r io.Reader) (string, error)

	// UploadRemote re-ingests an already hosted image, applying the given
	// transformation. Used for the free-tier watermark pass.
	UploadRemote(ctx context.Context, sourceURL, transformation string) (string, error)
}

// WatermarkTransformation is the cosmetic overlay applied to free and
// weekly tier enhancement outputs.
const WatermarkTransformation = "l_text:arial_40_bold:Lumina,co_white,o_50,g_south_east,x_20,y_20"

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary client: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) UploadImage(ctx context.Context, r io.Reader) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

func (s *CloudinaryStore) UploadRemote(ctx context.Context, sourceURL, transformation string) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, sourceURL, uploader.UploadParams{
		Folder:         s.folder + "/enhanced",
		ResourceType:   "image",
		Transformation: transformation,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary remote upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary remote upload failed: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
