// Package worldbank fetches indicator series from the World Bank API and
// normalizes them into tidy per-country-per-year observations.
package worldbank

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

const defaultBaseURL = "https://api.worldbank.org/v2"

// Observation is one value of one indicator for one country and year.
// Value is nil when the source reports null for that country-year.
type Observation struct {
	CountryCode string
	Country     string
	Year        int
	Value       *float64
}

// FetchError reports a failed or malformed indicator retrieval. Status is
// the HTTP status code, or 0 when the response body could not be parsed.
type FetchError struct {
	Indicator string
	Status    int
	Reason    string
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch indicator %s: status %d: %s", e.Indicator, e.Status, e.Reason)
	}
	return fmt.Sprintf("fetch indicator %s: %s", e.Indicator, e.Reason)
}

// Client retrieves indicators over HTTP. BaseURL is overridable for tests.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: http.DefaultClient,
	}
}

type apiRecord struct {
	CountryISO3 string `json:"countryiso3code"`
	Country     struct {
		Value string `json:"value"`
	} `json:"country"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// FetchIndicator performs a single request for one indicator across all
// countries and years. The page size is large enough that the whole series
// fits in one page; pagination is not handled. Any non-success status or
// unexpected response shape aborts with a FetchError.
func (c *Client) FetchIndicator(indicator string) ([]Observation, error) {
	url := fmt.Sprintf("%s/country/all/indicator/%s?format=json&per_page=20000", c.BaseURL, indicator)

	resp, err := c.HTTPClient.Get(url)
	if err != nil {
		return nil, &FetchError{Indicator: indicator, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Indicator: indicator, Status: resp.StatusCode, Reason: "unexpected HTTP status"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Indicator: indicator, Reason: "reading body: " + err.Error()}
	}

	// The API returns a two-element array: [paging metadata, observations].
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, &FetchError{Indicator: indicator, Reason: "malformed response: " + err.Error()}
	}
	if len(parts) < 2 {
		return nil, &FetchError{Indicator: indicator, Reason: "response has no observation element"}
	}

	var records []apiRecord
	if err := json.Unmarshal(parts[1], &records); err != nil {
		return nil, &FetchError{Indicator: indicator, Reason: "malformed observations: " + err.Error()}
	}

	obs := make([]Observation, 0, len(records))
	for _, rec := range records {
		year, err := strconv.Atoi(rec.Date)
		if err != nil {
			return nil, &FetchError{Indicator: indicator, Reason: fmt.Sprintf("unparseable date %q", rec.Date)}
		}
		obs = append(obs, Observation{
			CountryCode: rec.CountryISO3,
			Country:     rec.Country.Value,
			Year:        year,
			Value:       rec.Value,
		})
	}
	return obs, nil
}
