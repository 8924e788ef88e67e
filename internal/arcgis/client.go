package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Feature is one record from a GIS layer: a property bag plus raw
// GeoJSON geometry. Geometry is left unparsed here; the normalizer
// decides what to do with it.
type Feature struct {
	Properties map[string]interface{} `json:"properties"`
	Geometry   json.RawMessage        `json:"geometry"`
}

// FeatureCollection is the GeoJSON response envelope returned by a
// layer query.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Client queries ArcGIS REST map services for GeoJSON feature
// collections.
type Client struct {
	httpClient *http.Client
	maxRecords int
}

// NewClient creates a client with the given per-request timeout and
// record cap. The cap applies to every layer query; there is no
// pagination beyond it.
func NewClient(timeout time.Duration, maxRecords int) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxRecords: maxRecords,
	}
}

// QueryLayer fetches up to the configured record cap from layer 0 of
// the given map service, selecting outFields and returning geometry as
// GeoJSON.
func (c *Client) QueryLayer(ctx context.Context, serviceURL, outFields string) (*FeatureCollection, error) {
	params := url.Values{}
	params.Set("where", "1=1")
	params.Set("outFields", outFields)
	params.Set("f", "geojson")
	params.Set("returnGeometry", "true")
	params.Set("resultRecordCount", strconv.Itoa(c.maxRecords))

	reqURL := fmt.Sprintf("%s/0/query?%s", serviceURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching features: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("service returned %d: %s", resp.StatusCode, string(body))
	}

	var fc FeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &fc, nil
}
