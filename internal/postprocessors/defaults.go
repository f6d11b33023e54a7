package postprocessors

import (
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
	"github.com/custodia-labs/phapdien/internal/postprocessors/lengthfilter"
	"github.com/custodia-labs/phapdien/internal/postprocessors/normaliser"
	"github.com/custodia-labs/phapdien/internal/postprocessors/segmenter"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(segmenter.Name, buildSegmenter)
	r.Register(lengthfilter.Name, buildLengthFilter)
	r.Register(normaliser.Name, buildNormaliser)
}

func buildSegmenter(_ map[string]any) (driven.PostProcessor, error) {
	return segmenter.New(), nil
}

// buildLengthFilter creates a length filter from generic config.
// Supported config keys:
//   - min_word (int): Minimum raw word count (default: 512)
func buildLengthFilter(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []lengthfilter.Option

	if cfg != nil {
		if minWord := getIntFromConfig(cfg, "min_word"); minWord > 0 {
			opts = append(opts, lengthfilter.WithMinWord(minWord))
		}
	}

	return lengthfilter.New(opts...), nil
}

func buildNormaliser(_ map[string]any) (driven.PostProcessor, error) {
	return normaliser.New(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
