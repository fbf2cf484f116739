package purge

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// ErrBaseURLInvalid is returned when changed paths need mapping and BASE_URL is not an
// absolute http(s) URL
var ErrBaseURLInvalid = errors.New("BASE_URL must be an absolute http(s) URL")

// Input carries the raw JSON inputs of a purge run
type Input struct {
	// ExplicitURLs is a JSON array of URLs to purge verbatim
	ExplicitURLs string
	// ChangedPaths is a JSON array of repository paths to map through the rules
	ChangedPaths string
	BaseURL      string
}

// ResolveURLs picks the URLs to purge. Explicit URLs win when they parse to a non-empty
// array; otherwise changed paths are mapped and deduplicated. Malformed input is logged
// and skipped. An empty result means the whole zone should be purged. BaseURL is only
// checked when changed paths are mapped.
func ResolveURLs(in Input, log *zap.Logger) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if in.ExplicitURLs != "" {
		provided, err := parseArray(in.ExplicitURLs)
		if err != nil {
			log.Warn("Failed to parse PURGE_URLS, ignoring", zap.Error(err))
		} else if len(provided) > 0 {
			urls := make([]string, 0, len(provided))
			for _, v := range provided {
				urls = append(urls, stringify(v))
			}
			return urls, nil
		}
	}

	if in.ChangedPaths == "" {
		return nil, nil
	}

	paths, err := parseArray(in.ChangedPaths)
	if err != nil {
		log.Warn("Failed to parse CHANGED_PATHS, ignoring", zap.Error(err))
		return nil, nil
	}
	if err := validateBaseURL(in.BaseURL); err != nil {
		return nil, err
	}

	mapper := NewMapper(in.BaseURL)
	var urls []string
	seen := make(map[string]struct{})
	for _, v := range paths {
		p, ok := v.(string)
		if !ok {
			log.Debug("Skipping non-string changed path", zap.Any("path", v))
			continue
		}
		u, ok := mapper.Map(p)
		if !ok {
			log.Debug("No URL mapping for changed path", zap.String("path", p))
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	return urls, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrBaseURLInvalid, raw)
	}
	return nil
}

func parseArray(raw string) ([]any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array, got %T", v)
	}
	return arr, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
