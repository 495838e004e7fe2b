package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumina-app/lumina-backend/internal/models"
)

func TestRecommendTool(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    string
	}{
		{"old photo", "an old photograph of a house", models.ToolRestore},
		{"scratched print", "a scratched family portrait", models.ToolRestore},
		{"black and white", "a black and white street scene", models.ToolRestore},
		{"sepia", "a sepia toned wedding picture", models.ToolRestore},
		{"clear scene", "a clear view of the mountains", models.ToolEdit},
		{"modern building", "a modern building at night", models.ToolEdit},
		{"beautiful garden", "a beautiful garden in spring", models.ToolEdit},
		{"blurry", "a blurry picture of a cat", models.ToolUpscale},
		{"low resolution", "low quality image of a car", models.ToolUpscale},
		{"pixelated", "a pixelated screenshot", models.ToolUpscale},
		{"no keywords defaults to upscale", "a dog sitting on grass", models.ToolUpscale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecommendTool(tt.caption))
		})
	}
}

// A caption matching several lists resolves by priority: restore wins over
// edit, edit wins over upscale.
func TestRecommendToolPriority(t *testing.T) {
	assert.Equal(t, models.ToolRestore, RecommendTool("an old photo, clear and bright"))
	assert.Equal(t, models.ToolEdit, RecommendTool("a clear but blurry shot"))
}

func TestNormalizeCaption(t *testing.T) {
	assert.Equal(t, "an old photo", NormalizeCaption("  An OLD Photo \n"))
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("a blurry old dog in the park")
	assert.Equal(t, []string{"blurry", "old", "dog", "the", "park"}, tags)
}

func TestExtractTagsEmpty(t *testing.T) {
	assert.Empty(t, ExtractTags("a of in"))
	assert.Empty(t, ExtractTags(""))
}
