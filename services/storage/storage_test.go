package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUploader struct {
	params uploader.UploadParams
	result *uploader.UploadResult
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, _ interface{}, p uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = p
	return f.result, f.err
}

func TestUploadImageReturnsSecureURL(t *testing.T) {
	up := &fakeUploader{result: &uploader.UploadResult{PublicID: "barkbox/listings/abc", SecureURL: "https://res.cloudinary.com/demo/abc.jpg"}}
	store := &CloudinaryImageStore{upload: up, logger: zap.NewNop()}

	url, err := store.UploadImage(context.Background(), strings.NewReader("img"), ListingImagesFolder)
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/abc.jpg", url)
	assert.Equal(t, ListingImagesFolder, up.params.Folder)
}

func TestUploadImageFailures(t *testing.T) {
	store := &CloudinaryImageStore{upload: &fakeUploader{err: errors.New("timeout")}, logger: zap.NewNop()}
	_, err := store.UploadImage(context.Background(), strings.NewReader("img"), ListingImagesFolder)
	assert.ErrorContains(t, err, "timeout")

	store.upload = &fakeUploader{result: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}}
	_, err = store.UploadImage(context.Background(), strings.NewReader("img"), ListingImagesFolder)
	assert.ErrorContains(t, err, "Invalid image file")
}

func TestNewCloudinaryImageStoreRequiresCredentials(t *testing.T) {
	_, err := NewCloudinaryImageStore("", "key", "secret", zap.NewNop())
	assert.Error(t, err)
}
