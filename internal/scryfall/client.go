// Package scryfall is a read-only client for the public card catalog API.
// Every call carries its own deadline; any non-success status or malformed
// body is a lookup failure, and nothing is retried automatically.
package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"cardscan/internal/models"
)

const defaultBaseURL = "https://api.scryfall.com"

var (
	// ErrNotFound means the catalog has no card for the query.
	ErrNotFound = errors.New("card not found")
	// ErrTimeout means the call exceeded its deadline.
	ErrTimeout = errors.New("lookup timed out")
)

// Client queries the card catalog.
type Client struct {
	BaseURL    string
	Timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a catalog client with a 10 second per-call deadline.
func NewClient() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		Timeout: 10 * time.Second,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// cardJSON is the subset of the catalog's card object the pipeline uses.
type cardJSON struct {
	Name            string `json:"name"`
	PrintedName     string `json:"printed_name"`
	TypeLine        string `json:"type_line"`
	PrintedTypeLine string `json:"printed_type_line"`
	OracleText      string `json:"oracle_text"`
	PrintedText     string `json:"printed_text"`
	Lang            string `json:"lang"`
	Set             string `json:"set"`
	CollectorNumber string `json:"collector_number"`
	ImageURIs       struct {
		Normal string `json:"normal"`
	} `json:"image_uris"`
}

func (c cardJSON) toCard() *models.Card {
	return &models.Card{
		CanonicalName:      c.Name,
		LocalizedName:      c.PrintedName,
		TypeLine:           c.TypeLine,
		LocalizedTypeLine:  c.PrintedTypeLine,
		RulesText:          c.OracleText,
		LocalizedRulesText: c.PrintedText,
		Language:           c.Lang,
		ImageURI:           c.ImageURIs.Normal,
		SetCode:            c.Set,
		CollectorNumber:    c.CollectorNumber,
	}
}

// CardByCollector fetches the exact card printed with the given set code and
// collector number.
func (c *Client) CardByCollector(ctx context.Context, set, number string) (*models.Card, error) {
	endpoint := fmt.Sprintf("%s/cards/%s/%s", c.BaseURL, url.PathEscape(set), url.PathEscape(number))

	var card cardJSON
	if err := c.getJSON(ctx, endpoint, &card); err != nil {
		return nil, err
	}
	return card.toCard(), nil
}

// CardByFuzzyName fetches a card by fuzzy name match.
func (c *Client) CardByFuzzyName(ctx context.Context, name string) (*models.Card, error) {
	endpoint := fmt.Sprintf("%s/cards/named?fuzzy=%s", c.BaseURL, url.QueryEscape(name))

	var card cardJSON
	if err := c.getJSON(ctx, endpoint, &card); err != nil {
		return nil, err
	}
	return card.toCard(), nil
}

// Autocomplete returns name suggestions for a partial or noisy query.
func (c *Client) Autocomplete(ctx context.Context, q string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/cards/autocomplete?q=%s", c.BaseURL, url.QueryEscape(q))

	var resp struct {
		Data []string `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// LocalizedPrinting searches for a printing of the named card in the target
// language and returns the first hit.
func (c *Client) LocalizedPrinting(ctx context.Context, name, lang string) (*models.Card, error) {
	query := fmt.Sprintf("!%q lang:%s", name, lang)
	endpoint := fmt.Sprintf("%s/cards/search?q=%s&unique=prints", c.BaseURL, url.QueryEscape(query))

	var resp struct {
		Data []cardJSON `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrNotFound
	}
	return resp.Data[0].toCard(), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
