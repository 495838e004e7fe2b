package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-app/lumina-backend/internal/models"
)

type fakePhotoWriter struct {
	photo     *models.Photo
	getErr    error
	savedURL  string
	saveCalls int
}

func (f *fakePhotoWriter) GetOwned(userID, photoID uuid.UUID) (*models.Photo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.photo, nil
}

func (f *fakePhotoWriter) SetEnhancedURL(photoID uuid.UUID, url string) error {
	f.savedURL = url
	f.saveCalls++
	return nil
}

type fakeEngine struct {
	output    interface{}
	err       error
	lastModel string
	lastInput map[string]interface{}
}

func (f *fakeEngine) Caption(ctx context.Context, imageURL string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeEngine) Run(ctx context.Context, model string, input map[string]interface{}) (interface{}, error) {
	f.lastModel = model
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

type fakeObjectStore struct {
	watermarked    string
	err            error
	lastSource     string
	lastTransform  string
	watermarkCalls int
}

func (f *fakeObjectStore) UploadImage(ctx context.Context, r io.Reader) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeObjectStore) UploadRemote(ctx context.Context, sourceURL, transformation string) (string, error) {
	f.watermarkCalls++
	f.lastSource = sourceURL
	f.lastTransform = transformation
	if f.err != nil {
		return "", f.err
	}
	return f.watermarked, nil
}

func enhanceFixture(tier string) (*EnhanceService, *fakePhotoWriter, *fakeEngine, *fakeObjectStore, *models.User, uuid.UUID) {
	userID := uuid.New()
	photoID := uuid.New()
	user := &models.User{ID: userID, SubscriptionTier: tier}
	photos := &fakePhotoWriter{photo: &models.Photo{ID: photoID, UserID: userID}}
	engine := &fakeEngine{output: "https://replicate.delivery/out.png"}
	store := &fakeObjectStore{watermarked: "https://res.cloudinary.com/demo/marked.png"}
	svc := NewEnhanceService(photos, store, engine, time.Second)
	return svc, photos, engine, store, user, photoID
}

func TestEnhanceUnknownTool(t *testing.T) {
	svc, _, _, _, user, photoID := enhanceFixture(models.TierYearly)

	_, err := svc.Enhance(context.Background(), user, photoID, "https://img.example/x.jpg", "sharpen")
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestEnhanceTierGate(t *testing.T) {
	for _, tier := range []string{models.TierFree, models.TierWeekly} {
		svc, _, _, _, user, photoID := enhanceFixture(tier)
		_, err := svc.Enhance(context.Background(), user, photoID, "https://img.example/x.jpg", models.ToolRestore)
		assert.ErrorIs(t, err, ErrToolRestricted, tier)
	}

	for _, tier := range []string{models.TierMonthly, models.TierYearly} {
		svc, _, _, _, user, photoID := enhanceFixture(tier)
		_, err := svc.Enhance(context.Background(), user, photoID, "https://img.example/x.jpg", models.ToolRestore)
		assert.NoError(t, err, tier)
	}
}

func TestEnhanceWatermarkApplied(t *testing.T) {
	svc, photos, _, store, user, photoID := enhanceFixture(models.TierFree)

	out, err := svc.Enhance(context.Background(), user, photoID, "https://img.example/x.jpg", models.ToolUpscale)
	require.NoError(t, err)

	assert.Equal(t, store.watermarked, out)
	assert.Equal(t, 1, store.watermarkCalls)
	assert.Equal(t, "https://replicate.delivery/out.png", store.lastSource)
	assert.NotEmpty(t, store.lastTransform)
	assert.Equal(t, store.watermarked, photos.savedURL)
}

func TestEnhanceNoWatermarkForPaidTiers(t *testing.T) {
	svc, photos, _, store, user, photoID := enhanceFixture(models.TierMonthly)

	out, err := svc.Enhance(context.Background(), user, photoID, "https://img.example/x.jpg", models.ToolEdit)
	require.NoError(t, err)

	assert.Zero(t, store.watermarkCalls)
	assert.Equal(t, "https://replicate.delivery/out.png", out)
	assert.Equal(t, out, photos.savedURL)
}

// A failed watermark pass degrades to the raw output instead of failing the
// whole enhancement.
func TestEnhanceWatermarkFallback(t *testing.T) {
	svc, photos, _, store, user, photoID := enhanceFixture(models.TierFree)
	store.err = errors.New("cloudinary down")

	out, err := svc.Enhance(context.Background(), user, photoID, "https://img.example/x.jpg", models.ToolUpscale)
	require.NoError(t, err)

	assert.Equal(t, "https://replicate.delivery/out.png", out)
	assert.Equal(t, out, photos.savedURL)
}

func TestEnhanceListOutputPicksLast(t *testing.T) {
	svc, _, engine, _, user, photoID := enhanceFixture(models.TierYearly)
	engine.output = []interface{}{"https://a.png", "https://b.png"}

	out, err := svc.Enhance(context.Background(), user, photoID, "https://img.example/x.jpg", models.ToolUpscale)
	require.NoError(t, err)
	assert.Equal(t, "https://b.png", out)
}

func TestEnhanceModelError(t *testing.T) {
	svc, photos, engine, _, user, photoID := enhanceFixture(models.TierYearly)
	engine.err = errors.New("prediction failed")

	_, err := svc.Enhance(context.Background(), user, photoID, "https://img.example/x.jpg", models.ToolUpscale)
	assert.Error(t, err)
	assert.Zero(t, photos.saveCalls)
}

func TestEnhancePhotoNotOwned(t *testing.T) {
	svc, photos, _, _, user, photoID := enhanceFixture(models.TierYearly)
	photos.getErr = ErrPhotoNotFound

	_, err := svc.Enhance(context.Background(), user, photoID, "https://img.example/x.jpg", models.ToolUpscale)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestRouteTool(t *testing.T) {
	model, input, err := RouteTool(models.ToolUpscale, "https://img.example/x.jpg")
	require.NoError(t, err)
	assert.Contains(t, model, "real-esrgan")
	assert.Equal(t, "https://img.example/x.jpg", input["image"])
	assert.Equal(t, 2, input["scale"])

	model, input, err = RouteTool(models.ToolRestore, "https://img.example/x.jpg")
	require.NoError(t, err)
	assert.Contains(t, model, "gfpgan")
	assert.Equal(t, "https://img.example/x.jpg", input["img"])

	model, input, err = RouteTool(models.ToolEdit, "https://img.example/x.jpg")
	require.NoError(t, err)
	assert.Contains(t, model, "instruct-pix2pix")
	assert.NotEmpty(t, input["prompt"])

	_, _, err = RouteTool("colorize", "https://img.example/x.jpg")
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestTierAllowsTool(t *testing.T) {
	assert.True(t, TierAllowsTool(models.TierFree, models.ToolUpscale))
	assert.False(t, TierAllowsTool(models.TierFree, models.ToolRestore))
	assert.False(t, TierAllowsTool(models.TierWeekly, models.ToolEdit))
	assert.True(t, TierAllowsTool(models.TierMonthly, models.ToolRestore))
	assert.True(t, TierAllowsTool(models.TierYearly, models.ToolEdit))
}

func TestWatermarkRequired(t *testing.T) {
	assert.True(t, WatermarkRequired(models.TierFree))
	assert.True(t, WatermarkRequired(models.TierWeekly))
	assert.False(t, WatermarkRequired(models.TierMonthly))
	assert.False(t, WatermarkRequired(models.TierYearly))
}
