package catalog

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mitchellh/mapstructure"
)

// Display defaults for fields the catalog leaves out.
const (
	DefaultDescription = "Descripción no disponible"
	DefaultPrice       = "Precio no disponible"
	DefaultCurrency    = "$"
	DefaultSessions    = 1
	DefaultDuration    = 60
)

// Package is one catalog entry, normalized for display.
type Package struct {
	ID            string `mapstructure:"id"`
	Name          string `mapstructure:"name"`
	Description   string `mapstructure:"description"`
	Price         string `mapstructure:"price"`
	Currency      string `mapstructure:"currency"`
	SessionsCount int    `mapstructure:"sessionsCount"`
	Duration      int    `mapstructure:"duration"` // minutes per session
	IsPopular     bool   `mapstructure:"isPopular"`
}

// PriceLabel joins currency and price, or returns the placeholder when the
// catalog sent no price.
func (p Package) PriceLabel() string {
	if p.Price == DefaultPrice {
		return p.Price
	}
	return p.Currency + p.Price
}

func defaultPackage(position int) Package {
	return Package{
		Name:          fmt.Sprintf("Paquete %d", position),
		Description:   DefaultDescription,
		Price:         DefaultPrice,
		Currency:      DefaultCurrency,
		SessionsCount: DefaultSessions,
		Duration:      DefaultDuration,
	}
}

// decodePackage converts one raw catalog object into a Package. position is
// 1-based and only used for the default name. Absent and null fields keep
// their defaults; numbers and strings are converted loosely, so a numeric
// price or id is accepted.
func decodePackage(raw any, position int) (Package, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Package{}, fmt.Errorf("package %d is %T, not an object", position, raw)
	}

	pkg := defaultPackage(position)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &pkg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Package{}, err
	}
	if err := decoder.Decode(obj); err != nil {
		return Package{}, fmt.Errorf("package %d: %w", position, err)
	}

	pkg.Name = strings.TrimSpace(pkg.Name)
	if pkg.Name == "" {
		pkg.Name = fmt.Sprintf("Paquete %d", position)
	}
	pkg.Description = stripHTML(pkg.Description)
	if pkg.Description == "" {
		pkg.Description = DefaultDescription
	}
	if strings.TrimSpace(pkg.Price) == "" {
		pkg.Price = DefaultPrice
	}
	if pkg.Currency == "" {
		pkg.Currency = DefaultCurrency
	}
	return pkg, nil
}

// stripHTML flattens rich-text descriptions from the CMS into plain text.
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
