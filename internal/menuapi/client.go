// Package menuapi is a thin client for the hosted school-menus API. It
// exposes the two read-only endpoints the feed generator needs: the list of
// published months and a month's day-by-day override data.
package menuapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appLog "lunchcal/internal/log"
)

// DateOverride is one day's raw record as returned by the date_overwrites
// endpoint. Setting is an embedded JSON document describing the day's
// display layout; it is decoded later by the menu parser.
type DateOverride struct {
	Day     string `json:"day"`
	Setting string `json:"setting"`
}

type monthOverridesResponse struct {
	Data []DateOverride `json:"data"`
}

type menuResponse struct {
	Data struct {
		PublishedMonths []string `json:"published_months"`
	} `json:"data"`
}

// Client talks to the menus API for a fixed organization/menu pair.
type Client struct {
	baseURL string
	orgID   string
	menuID  string
	client  *http.Client
}

// NewClient creates a Client. timeout bounds each request; zero means a
// 15 second default.
func NewClient(baseURL, orgID, menuID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		orgID:   orgID,
		menuID:  menuID,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// PublishedMonths returns the ordered list of month strings (upstream format
// "YYYY-MM-DD", day part ignored) that have published menu data.
func (c *Client) PublishedMonths(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/organizations/%s/menus/%s", c.baseURL, c.orgID, c.menuID)

	var out menuResponse
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("published months: %w", err)
	}

	appLog.Debug("published months fetched", "count", len(out.Data.PublishedMonths))
	return out.Data.PublishedMonths, nil
}

// MonthOverrides fetches the raw day-override entries for one month.
func (c *Client) MonthOverrides(ctx context.Context, year, month int) ([]DateOverride, error) {
	url := fmt.Sprintf("%s/organizations/%s/menus/%s/year/%d/month/%d/date_overwrites",
		c.baseURL, c.orgID, c.menuID, year, month)

	var out monthOverridesResponse
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("month %d-%02d overrides: %w", year, month, err)
	}

	appLog.Debug("month overrides fetched", "year", year, "month", month, "days", len(out.Data))
	return out.Data, nil
}

// getJSON performs one GET and decodes the JSON body. Any non-2xx status or
// decode failure is an error; there are no retries.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
