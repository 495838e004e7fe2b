package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/replicate/replicate-go"
)

// Model identifiers, pinned to specific versions.
const (
	captionModel = "salesforce/blip:2e1dddc8621f72155f24cf2e0adbde548458d3cab9f00c0139eea840d0ac4746"
)

type ReplicateEngine struct {
	client *replicate.Client
}

func NewReplicateEngine(apiToken string) (*ReplicateEngine, error) {
	if apiToken == "" {
		return nil, errors.New("replicate API token is required")
	}
	client, err := replicate.NewClient(replicate.WithToken(apiToken))
	if err != nil {
		return nil, fmt.Errorf("failed to init replicate client: %w", err)
	}
	return &ReplicateEngine{client: client}, nil
}

func (e *ReplicateEngine) Caption(ctx context.Context, imageURL string) (string, error) {
	output, err := e.client.Run(ctx, captionModel, replicate.PredictionInput{
		"image": imageURL,
		"task":  "image_captioning",
	}, nil)
	if err != nil {
		return "", fmt.Errorf("caption model failed: %w", err)
	}

	caption, err := OutputString(output)
	if err != nil {
		return "", fmt.Errorf("caption model returned no text: %w", err)
	}

	// BLIP prefixes its answer with "Caption: ".
	caption = strings.TrimSpace(strings.TrimPrefix(caption, "Caption:"))
	if caption == "" {
		return "", errors.New("caption model returned empty caption")
	}
	return caption, nil
}

func (e *ReplicateEngine) Run(ctx context.Context, model string, input map[string]interface{}) (interface{}, error) {
	output, err := e.client.Run(ctx, model, replicate.PredictionInput(input), nil)
	if err != nil {
		return nil, fmt.Errorf("model %s failed: %w", model, err)
	}
	return output, nil
}
