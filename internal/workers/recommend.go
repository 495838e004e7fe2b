package workers

import (
	"strings"

	"github.com/lumina-app/lumina-backend/internal/models"
)

// Keyword lists for caption classification, checked in priority order:
// restore beats edit beats upscale; anything else defaults to upscale.
var (
	restoreKeywords = []string{"old", "scratch", "damage", "black and white", "sepia"}
	editKeywords    = []string{"clear", "modern", "bright", "beautiful"}
	upscaleKeywords = []string{"blur", "low", "pixel"}
)

// NormalizeCaption lower-cases and trims a raw model caption.
func NormalizeCaption(caption string) string {
	return strings.ToLower(strings.TrimSpace(caption))
}

// RecommendTool classifies a normalized caption into exactly one tool.
// First-match over fixed lists; every caption resolves to something.
func RecommendTool(caption string) string {
	for _, kw := range restoreKeywords {
		if strings.Contains(caption, kw) {
			return models.ToolRestore
		}
	}
	for _, kw := range editKeywords {
		if strings.Contains(caption, kw) {
			return models.ToolEdit
		}
	}
	for _, kw := range upscaleKeywords {
		if strings.Contains(caption, kw) {
			return models.ToolUpscale
		}
	}
	return models.ToolUpscale
}

// ExtractTags splits a normalized caption on whitespace and keeps tokens
// longer than 2 characters. Order preserved, duplicates allowed.
func ExtractTags(caption string) []string {
	fields := strings.Fields(caption)
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			tags = append(tags, f)
		}
	}
	return tags
}
