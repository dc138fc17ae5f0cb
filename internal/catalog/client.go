// Package catalog reads the studio's package catalog from the frontend API.
//
// The catalog service answers GET /api/packages with either a bare JSON
// array of packages or an object wrapping the array under "packages".
// Both shapes are normalized to the same Listing.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzhttp"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/config"
	domerrors "github.com/soulpath-wellness/soulpath-actions-go/internal/errors"
)

// PackagesPath is the catalog endpoint relative to the service base URL.
const PackagesPath = "/api/packages"

// maxBodySize bounds how much of a catalog response is read.
const maxBodySize = 4 << 20

// errShape marks a JSON body that is neither an array nor {"packages": [...]}.
var errShape = errors.New("catalog: unexpected response shape")

// Listing is one fetched catalog.
type Listing struct {
	Packages []Package
	// Raw holds the objects exactly as received, for slot storage.
	Raw []any
}

// Find returns the first package whose name matches name (ignoring case)
// or whose id equals id. Empty arguments never match.
func (l *Listing) Find(name, id string) (Package, any, bool) {
	for i, p := range l.Packages {
		if name != "" && strings.EqualFold(p.Name, name) {
			return p, l.Raw[i], true
		}
		if id != "" && p.ID == id {
			return p, l.Raw[i], true
		}
	}
	return Package{}, nil, false
}

// Client fetches the catalog. The service address is resolved on every
// call, so environment changes take effect without a restart.
type Client struct {
	resolver   *config.Resolver
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a catalog client. A nil resolver reads the process
// environment.
func NewClient(resolver *config.Resolver, opts ...Option) *Client {
	if resolver == nil {
		resolver = config.NewResolver(nil)
	}
	c := &Client{
		resolver: resolver,
		httpClient: &http.Client{
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches all packages once. Failures are *errors.ServiceError values
// classified by kind; an empty list counts as malformed.
func (c *Client) List(ctx context.Context) (*Listing, error) {
	desc, err := c.resolver.Catalog()
	if err != nil {
		return nil, domerrors.NewServiceError(config.ServiceCatalog, err)
	}

	ctx, cancel := context.WithTimeout(ctx, desc.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.Endpoint(PackagesPath), nil)
	if err != nil {
		return nil, domerrors.NewServiceError(config.ServiceCatalog, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domerrors.ServiceError{
			Service: config.ServiceCatalog,
			Kind:    domerrors.KindConnection,
			Err:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &domerrors.ServiceError{
			Service: config.ServiceCatalog,
			Kind:    domerrors.KindConnection,
			Err:     fmt.Errorf("read body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domerrors.NewStatusError(config.ServiceCatalog, resp.StatusCode, string(body))
	}

	return parseListing(body)
}

func parseListing(body []byte) (*Listing, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, domerrors.NewMalformedError(config.ServiceCatalog, "", nil)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, domerrors.NewMalformedError(config.ServiceCatalog, string(body), err)
	}

	raw, ok := normalize(decoded)
	if !ok {
		return nil, domerrors.NewMalformedError(config.ServiceCatalog, string(body), errShape)
	}
	if len(raw) == 0 {
		return nil, domerrors.NewMalformedError(config.ServiceCatalog, string(body), domerrors.ErrEmptyResponse)
	}

	listing := &Listing{
		Packages: make([]Package, 0, len(raw)),
		Raw:      raw,
	}
	for i, item := range raw {
		pkg, err := decodePackage(item, i+1)
		if err != nil {
			return nil, domerrors.NewMalformedError(config.ServiceCatalog, string(body), err)
		}
		listing.Packages = append(listing.Packages, pkg)
	}
	return listing, nil
}

// normalize accepts a bare array or an object with a "packages" array.
func normalize(decoded any) ([]any, bool) {
	switch v := decoded.(type) {
	case []any:
		return v, true
	case map[string]any:
		list, ok := v["packages"].([]any)
		return list, ok
	default:
		return nil, false
	}
}
