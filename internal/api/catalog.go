// Package api talks to the remote translation catalog.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Translation is one downloadable translation.
type Translation struct {
	ShortName string `json:"short_name"`
	FullName  string `json:"full_name"`
	Updated   int64  `json:"updated"`
	Language  string `json:"-"`
}

// LanguageGroup is the catalog's top-level shape: translations grouped by
// language.
type LanguageGroup struct {
	Language     string        `json:"language"`
	Translations []Translation `json:"translations"`
}

type Client struct {
	httpClient *http.Client
	catalogURL string
}

func NewClient(catalogURL string) *Client {
	return &Client{
		httpClient: &http.Client{},
		catalogURL: catalogURL,
	}
}

// Translations fetches the catalog. A non-empty language keeps only groups
// whose name contains it, case-insensitively.
func (c *Client) Translations(ctx context.Context, language string) ([]Translation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.catalogURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var groups []LanguageGroup
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	language = strings.ToLower(language)
	var out []Translation
	for _, g := range groups {
		if language != "" && !strings.Contains(strings.ToLower(g.Language), language) {
			continue
		}
		for _, t := range g.Translations {
			t.Language = g.Language
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ShortName < out[j].ShortName })
	return out, nil
}
