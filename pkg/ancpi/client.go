// Package ancpi queries the public ANCPI eTerra feature service for
// cadastral parcel boundaries.
package ancpi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultBaseURL is the eTerra publish layer queried for parcel geometry.
const DefaultBaseURL = "https://geoportal.ancpi.ro/maps/rest/services/eterra3_publish/MapServer/1/query"

// QueryURL builds the feature-query URL for one cadastral record.
// The INSPIRE_ID predicate is RO.{countyID}.{uatID}.{cadastralNumber}.
func QueryURL(baseURL string, countyID, uatID int, cadastralNumber int64) string {
	where := fmt.Sprintf("INSPIRE_ID = 'RO.%d.%d.%d'", countyID, uatID, cadastralNumber)
	return fmt.Sprintf(
		"%s?f=json&outFields=NATIONAL_CADASTRAL_REFERENCE&spatialRel=esriSpatialRelIntersects&where=%s",
		baseURL, url.PathEscape(where),
	)
}

// ClientOptions configures the ANCPI client.
type ClientOptions struct {
	UserAgent string
	Timeout   time.Duration
}

// Client is a thin HTTP client for the feature-query endpoint. It does
// not retry and does not pace requests; batch pacing belongs to the
// caller.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates an ANCPI client with the given options.
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "cadastral-cli/1.0"
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
	}
}

// queryResponse is the subset of the ArcGIS feature-query JSON we need.
type queryResponse struct {
	Features []struct {
		Geometry *struct {
			Rings [][][]float64 `json:"rings"`
		} `json:"geometry"`
	} `json:"features"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FetchRings performs one GET against a query URL and returns the first
// feature's polygon rings, still in EPSG:3844.
//
// Failures are classified so the batch runner can degrade a single
// record instead of aborting: *StatusError for non-2xx responses,
// ErrParse for bodies that are not valid JSON, ErrEmptyResult when the
// response carries no usable geometry.
func (c *Client) FetchRings(ctx context.Context, rawURL string) ([][][]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "ancpi: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ancpi: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ancpi: read body")
	}

	var parsed queryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(ErrParse, err.Error())
	}

	// ArcGIS reports some failures as HTTP 200 with an error object.
	if parsed.Error != nil {
		return nil, eris.Wrapf(ErrEmptyResult, "server error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}

	if len(parsed.Features) == 0 || parsed.Features[0].Geometry == nil || len(parsed.Features[0].Geometry.Rings) == 0 {
		return nil, ErrEmptyResult
	}

	return parsed.Features[0].Geometry.Rings, nil
}
