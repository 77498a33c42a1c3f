package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
)

type placesResponse struct {
	SearchResults *[]placeResult `json:"searchResults"`
	Info          placesInfo     `json:"info"`
}

type placesInfo struct {
	StatusCode int      `json:"statuscode"`
	Messages   []string `json:"messages"`
}

type placeResult struct {
	Fields map[string]any `json:"fields"`
}

// ParseNearbyPlaces decodes a radius search response into places, keeping
// the order of searchResults. A response without searchResults is an empty
// list, unless info.statuscode says the request was rejected.
func ParseNearbyPlaces(body []byte) ([]NearbyPlace, error) {
	var resp placesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ExtractionError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseMalformedJSON,
		}
	}

	if resp.SearchResults == nil {
		if resp.Info.StatusCode != 0 {
			return nil, &ExtractionError{
				Message:   fmt.Sprintf("status code %d", resp.Info.StatusCode),
				Retryable: true,
				Cause:     ErrCauseUpstreamRejected,
				Messages:  resp.Info.Messages,
			}
		}
		return []NearbyPlace{}, nil
	}

	places := make([]NearbyPlace, 0, len(*resp.SearchResults))
	for _, result := range *resp.SearchResults {
		places = append(places, NearbyPlace{
			Name:     orSentinel(stringField(result.Fields, "name"), NoPlaceName),
			Category: orSentinel(stringField(result.Fields, "group_sic_code_name"), NoPlaceCategory),
			Address:  orSentinel(stringField(result.Fields, "address"), NoPlaceAddress),
			City:     orSentinel(stringField(result.Fields, "city"), NoPlaceCity),
		})
	}
	return places, nil
}

// stringField treats absent, null and non-string values alike.
func stringField(fields map[string]any, name string) string {
	value, ok := fields[name].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
