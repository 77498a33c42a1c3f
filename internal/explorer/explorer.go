package explorer

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rohmanhakim/nps-nearby/internal/extractor"
	"github.com/rohmanhakim/nps-nearby/internal/fetcher"
	"github.com/rohmanhakim/nps-nearby/internal/metadata"
)

/*
Responsibilities
- Resolve state names to listing pages
- Turn a listing into site records, one fetch and one parse per site
- Build places requests for a site and decode the answer

Every body goes through the cached fetcher, so repeated lookups within and
across sessions cost nothing once cached.
*/

// PlacesParam describes the radius search sent for each site.
type PlacesParam struct {
	Endpoint   string
	APIKey     string
	Radius     int
	MaxMatches int
}

type Explorer struct {
	metadataSink metadata.MetadataSink
	fetcher      fetcher.Fetcher
	baseURL      string
	places       PlacesParam
}

func NewExplorer(
	metadataSink metadata.MetadataSink,
	fetcher fetcher.Fetcher,
	baseURL string,
	places PlacesParam,
) *Explorer {
	return &Explorer{
		metadataSink: metadataSink,
		fetcher:      fetcher,
		baseURL:      strings.TrimRight(baseURL, "/"),
		places:       places,
	}
}

// IndexURL is the home page holding the state menu.
func (e *Explorer) IndexURL() string {
	return e.baseURL + "/index.htm"
}

// StateURLs maps every lower-cased state name on the home page to its listing URL.
func (e *Explorer) StateURLs(ctx context.Context) (map[string]string, error) {
	result, err := e.fetcher.Fetch(ctx, e.IndexURL())
	if err != nil {
		return nil, err
	}

	states, parseErr := extractor.ParseStateIndex(result.Body(), e.baseURL)
	if parseErr != nil {
		e.recordExtractionError("Explorer.StateURLs", e.IndexURL(), parseErr)
		return nil, parseErr
	}
	return states, nil
}

// LookupState finds the listing URL of a state name, ignoring case and
// surrounding blanks.
func (e *Explorer) LookupState(ctx context.Context, name string) (string, bool, error) {
	states, err := e.StateURLs(ctx)
	if err != nil {
		return "", false, err
	}
	stateURL, ok := states[strings.ToLower(strings.TrimSpace(name))]
	return stateURL, ok, nil
}

// SitesForState returns the sites of a state listing in document order.
func (e *Explorer) SitesForState(ctx context.Context, stateURL string) ([]extractor.Site, error) {
	result, err := e.fetcher.Fetch(ctx, stateURL)
	if err != nil {
		return nil, err
	}

	siteURLs, parseErr := extractor.ParseStateListing(result.Body(), e.baseURL)
	if parseErr != nil {
		e.recordExtractionError("Explorer.SitesForState", stateURL, parseErr)
		return nil, parseErr
	}

	sites := make([]extractor.Site, 0, len(siteURLs))
	for _, siteURL := range siteURLs {
		site, err := e.Site(ctx, siteURL)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// Site fetches and parses one detail page.
func (e *Explorer) Site(ctx context.Context, siteURL string) (extractor.Site, error) {
	result, err := e.fetcher.Fetch(ctx, siteURL)
	if err != nil {
		return extractor.Site{}, err
	}
	return extractor.ParseSiteDetail(result.Body(), siteURL), nil
}

// NearbyPlaces runs the radius search around the site zipcode.
func (e *Explorer) NearbyPlaces(ctx context.Context, site extractor.Site) ([]extractor.NearbyPlace, error) {
	if e.places.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if site.Zipcode == "" || site.Zipcode == extractor.NoZipcode {
		return nil, ErrNoOrigin
	}

	key := e.PlacesRequestKey(site.Zipcode)
	result, err := e.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	places, parseErr := extractor.ParseNearbyPlaces(result.Body())
	if parseErr != nil {
		e.recordExtractionError("Explorer.NearbyPlaces", key, parseErr)
		return nil, parseErr
	}
	return places, nil
}

// PlacesRequestKey builds the radius search URL for origin. Parameters are
// always written in the same order so the same site maps to the same cache
// entry.
func (e *Explorer) PlacesRequestKey(origin string) string {
	params := []struct {
		name  string
		value string
	}{
		{"radius", strconv.Itoa(e.places.Radius)},
		{"key", e.places.APIKey},
		{"origin", origin},
		{"maxMatches", strconv.Itoa(e.places.MaxMatches)},
		{"ambiguities", "ignore"},
		{"outFormat", "json"},
	}

	var b strings.Builder
	b.WriteString(e.places.Endpoint)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p.name)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func (e *Explorer) recordExtractionError(action string, key string, err error) {
	var extractionErr *extractor.ExtractionError
	if !errors.As(err, &extractionErr) {
		return
	}
	e.metadataSink.RecordError(
		time.Now(),
		"explorer",
		action,
		extractor.MapExtractionErrorToMetadataCause(extractionErr),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, key),
		},
	)
}
