package inference

import (
	"context"
	"errors"
	"fmt"
)

// Engine invokes remote models against an image URL.
type Engine interface {
	// Caption returns a free-text description of the image.
	Caption(ctx context.Context, imageURL string) (string, error)

	// Run invokes the given model with the given input and returns the raw
	// model output (a URL string or an ordered list of candidate URLs).
	Run(ctx context.Context, model string, input map[string]interface{}) (interface{}, error)
}

// OutputString normalizes a model output into a single string. Models return
// either one value or an ordered list of candidates; the last element wins.
func OutputString(output interface{}) (string, error) {
	switch v := output.(type) {
	case string:
		if v == "" {
			return "", errors.New("empty model output")
		}
		return v, nil
	case []interface{}:
		if len(v) == 0 {
			return "", errors.New("empty model output list")
		}
		last, ok := v[len(v)-1].(string)
		if !ok {
			return "", fmt.Errorf("unexpected model output element %T", v[len(v)-1])
		}
		return last, nil
	case []string:
		if len(v) == 0 {
			return "", errors.New("empty model output list")
		}
		return v[len(v)-1], nil
	default:
		return "", fmt.Errorf("unexpected model output type %T", output)
	}
}
