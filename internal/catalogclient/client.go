package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CarShelf/internal/catalog"
)

var (
	ErrUnavailable = errors.New("catalog unavailable")
	ErrBadStatus   = errors.New("catalog bad status")
	ErrBadResponse = errors.New("catalog bad response")
)

const (
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 4 << 20
)

type Client struct {
	BaseURL string
	Client  *http.Client
}

func New(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Search runs a list query. An id query returns the lookup result with
// only Cars populated.
func (c *Client) Search(ctx context.Context, q catalog.Query) (catalog.Result, error) {
	var res catalog.Result
	if err := c.getJSON(ctx, "/api/cars", q.Values(), &res); err != nil {
		return catalog.Result{}, err
	}
	if res.Cars == nil {
		res.Cars = []catalog.Item{}
	}
	res.ByID = q.ID != nil
	return res, nil
}

// Get looks up one item. A missing item is not an error.
func (c *Client) Get(ctx context.Context, id int) (catalog.Item, bool, error) {
	res, err := c.Search(ctx, catalog.Query{ID: &id})
	if err != nil {
		return catalog.Item{}, false, err
	}
	for _, it := range res.Cars {
		if it.ID == id {
			return it, true, nil
		}
	}
	return catalog.Item{}, false, nil
}

func (c *Client) Facets(ctx context.Context) (catalog.Facets, error) {
	var f catalog.Facets
	if err := c.getJSON(ctx, "/api/facets", nil, &f); err != nil {
		return catalog.Facets{}, err
	}
	return f, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}
