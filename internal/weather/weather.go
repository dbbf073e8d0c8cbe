// Package weather fetches current conditions for the chat header. The
// widget is decorative: any failure means it just is not shown.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.weatherapi.com/v1"

// Current is the subset of the current-conditions response we display.
type Current struct {
	Location  string
	TempC     float64
	Condition string
	Humidity  int
}

// Client queries the weatherapi.com current.json endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Current fetches conditions for a location ("London", "48.85,2.35", a
// postcode).
func (c *Client) Current(ctx context.Context, location string) (*Current, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/current.json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather request: status %d", resp.StatusCode)
	}

	var body struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
		Current struct {
			TempC     float64 `json:"temp_c"`
			Humidity  int     `json:"humidity"`
			Condition struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	return &Current{
		Location:  body.Location.Name,
		TempC:     body.Current.TempC,
		Condition: body.Current.Condition.Text,
		Humidity:  body.Current.Humidity,
	}, nil
}

// String renders the one-line header form: "London 18.5°C, Partly cloudy".
func (w *Current) String() string {
	return fmt.Sprintf("%s %.1f°C, %s", w.Location, w.TempC, w.Condition)
}
