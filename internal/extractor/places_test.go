package extractor_test

import (
	"errors"
	"testing"

	"github.com/rohmanhakim/nps-nearby/internal/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNearbyPlaces(t *testing.T) {
	body := `{
	"searchResults": [
		{"fields": {"name": "Isle Royale Queen", "group_sic_code_name": "Ferries", "address": "14 Lakeshore Dr", "city": "Copper Harbor"}},
		{"fields": {"name": "Harbor Haus", "group_sic_code_name": "", "address": "77 Brockway Ave", "city": "Copper Harbor"}},
		{"fields": {"name": "Lookout", "city": null, "address": 42}},
		{"name": "no fields object"}
	],
	"info": {"statuscode": 0, "messages": []}
}`

	places, err := extractor.ParseNearbyPlaces([]byte(body))
	require.NoError(t, err)
	require.Len(t, places, 4)

	assert.Equal(t, extractor.NearbyPlace{
		Name: "Isle Royale Queen", Category: "Ferries", Address: "14 Lakeshore Dr", City: "Copper Harbor",
	}, places[0])
	assert.Equal(t, "Isle Royale Queen (Ferries): 14 Lakeshore Dr, Copper Harbor", places[0].Info())

	assert.Equal(t, "no category", places[1].Category)
	assert.Equal(t, "Harbor Haus", places[1].Name)

	assert.Equal(t, extractor.NearbyPlace{
		Name: "Lookout", Category: "no category", Address: "no address", City: "no city",
	}, places[2])

	assert.Equal(t, extractor.NearbyPlace{
		Name: "no name", Category: "no category", Address: "no address", City: "no city",
	}, places[3])
}

func TestParseNearbyPlaces_EmptyResults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty array", `{"searchResults": []}`},
		{"missing key", `{"info": {"statuscode": 0}}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			places, err := extractor.ParseNearbyPlaces([]byte(tt.body))
			require.NoError(t, err)
			assert.NotNil(t, places)
			assert.Empty(t, places)
		})
	}
}

func TestParseNearbyPlaces_Rejected(t *testing.T) {
	body := `{"info": {"statuscode": 403, "messages": ["The AppKey submitted with this request is invalid."]}}`

	_, err := extractor.ParseNearbyPlaces([]byte(body))
	require.Error(t, err)

	var extractionErr *extractor.ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, extractor.ErrCauseUpstreamRejected, extractionErr.Cause)
	assert.Equal(t, []string{"The AppKey submitted with this request is invalid."}, extractionErr.Messages)
	assert.Contains(t, err.Error(), "AppKey")
}

func TestParseNearbyPlaces_Malformed(t *testing.T) {
	for _, body := range []string{"", "<html>Gateway Timeout</html>", `{"searchResults": [`, `[]`} {
		_, err := extractor.ParseNearbyPlaces([]byte(body))

		var extractionErr *extractor.ExtractionError
		require.True(t, errors.As(err, &extractionErr), "body %q", body)
		assert.Equal(t, extractor.ErrCauseMalformedJSON, extractionErr.Cause)
	}
}
