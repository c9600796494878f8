package searchconsole

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	gsc "google.golang.org/api/searchconsole/v1"
)

// Scope grants read-only access to the user's Search Console data
const Scope = gsc.WebmastersReadonlyScope

// maxRowLimit is the largest page the Search Analytics API returns
const maxRowLimit = 25000

// Site is a Search Console property visible to the signed-in user.
type Site struct {
	SiteURL         string `json:"siteUrl"`
	PermissionLevel string `json:"permissionLevel"`
}

// Client is the subset of the Search Console API the app calls.
type Client interface {
	ListSites(ctx context.Context) ([]Site, error)
	Query(ctx context.Context, siteURL string, window DateRange, dimensions ...string) ([]Row, error)
}

// ClientFactory builds a Client that authenticates with the given token source.
type ClientFactory func(ctx context.Context, ts oauth2.TokenSource) (Client, error)

// GoogleClient calls the hosted Search Console API.
type GoogleClient struct {
	svc *gsc.Service
}

// NewClientFactory returns a ClientFactory whose clients send requests
// through base with an oauth2 transport on top. Extra options (for example
// option.WithEndpoint) are passed to the generated service.
func NewClientFactory(base *http.Client, opts ...option.ClientOption) ClientFactory {
	if base == nil {
		base = http.DefaultClient
	}
	return func(ctx context.Context, ts oauth2.TokenSource) (Client, error) {
		hc := &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: base.Transport},
			Timeout:   base.Timeout,
		}
		all := append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)
		svc, err := gsc.NewService(ctx, all...)
		if err != nil {
			return nil, fmt.Errorf("failed to create search console service: %w", err)
		}
		return &GoogleClient{svc: svc}, nil
	}
}

// ListSites returns every property the credential can see
func (c *GoogleClient) ListSites(ctx context.Context) ([]Site, error) {
	resp, err := c.svc.Sites.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sites.list: %w", err)
	}

	sites := make([]Site, 0, len(resp.SiteEntry))
	for _, e := range resp.SiteEntry {
		if e == nil {
			continue
		}
		sites = append(sites, Site{SiteURL: e.SiteUrl, PermissionLevel: e.PermissionLevel})
	}
	return sites, nil
}

// Query runs searchanalytics.query for one property over the window
func (c *GoogleClient) Query(
	ctx context.Context,
	siteURL string,
	window DateRange,
	dimensions ...string,
) ([]Row, error) {
	req := &gsc.SearchAnalyticsQueryRequest{
		StartDate:  window.Start,
		EndDate:    window.End,
		Dimensions: dimensions,
		RowLimit:   maxRowLimit,
	}
	resp, err := c.svc.Searchanalytics.Query(siteURL, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("searchanalytics.query: %w", err)
	}

	rows := make([]Row, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		if r == nil {
			continue
		}
		rows = append(rows, Row{
			Keys:        r.Keys,
			Clicks:      r.Clicks,
			Impressions: r.Impressions,
			CTR:         r.Ctr,
			Position:    r.Position,
		})
	}
	return rows, nil
}
