// Package content loads the business data served by the studio, booking,
// and fallback actions: teachers, schedules, prices, keyword buckets and
// the apology texts used when the catalog service fails.
//
// The document is YAML. It is validated against an embedded JSON Schema
// before being decoded, so a bad override fails at startup with every
// problem listed instead of at the first dispatch that touches it.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/stringutil"
)

//go:embed content.yaml
var defaultDocument []byte

//go:embed schema.json
var schemaDocument []byte

// Content is the decoded business document.
type Content struct {
	Studio          Studio           `mapstructure:"studio"`
	Teachers        []Teacher        `mapstructure:"teachers"`
	Schedule        []ScheduleDay    `mapstructure:"schedule"`
	ClassPricing    []ClassPrice     `mapstructure:"class_pricing"`
	Recommendations Recommendations  `mapstructure:"recommendations"`
	Availability    []AvailableDay   `mapstructure:"availability"`
	SessionTypes    []string         `mapstructure:"session_types"`
	Booking         Booking          `mapstructure:"booking"`
	Fallback        Fallback         `mapstructure:"fallback"`
	Sentiment       SentimentWords   `mapstructure:"sentiment"`
	Degradation     DegradationTexts `mapstructure:"degradation"`
}

type Studio struct {
	Name          string `mapstructure:"name"`
	ContactPerson string `mapstructure:"contact_person"`
}

type Teacher struct {
	Key         string   `mapstructure:"key"`
	Name        string   `mapstructure:"name"`
	Specialties []string `mapstructure:"specialties"`
	Experience  string   `mapstructure:"experience"`
	Description string   `mapstructure:"description"`
}

type ScheduleDay struct {
	Day     string   `mapstructure:"day"`
	Classes []string `mapstructure:"classes"`
}

type ClassPrice struct {
	Class string `mapstructure:"class"`
	Price string `mapstructure:"price"`
}

type Recommendations struct {
	Levels  []LevelRecommendation `mapstructure:"levels"`
	Popular []PopularClass        `mapstructure:"popular"`
}

type LevelRecommendation struct {
	Level       string   `mapstructure:"level"`
	Description string   `mapstructure:"description"`
	Classes     []string `mapstructure:"classes"`
}

type PopularClass struct {
	Name string `mapstructure:"name"`
	Note string `mapstructure:"note"`
}

type AvailableDay struct {
	Day   string   `mapstructure:"day"`
	Times []string `mapstructure:"times"`
}

type Booking struct {
	DefaultSession string         `mapstructure:"default_session"`
	DefaultPrice   int            `mapstructure:"default_price"`
	Currency       string         `mapstructure:"currency"`
	SessionPrices  map[string]int `mapstructure:"session_prices"`
}

// Bucket is one row of the fallback keyword table.
type Bucket struct {
	Name           string   `mapstructure:"name"`
	Keywords       []string `mapstructure:"keywords"`
	Response       string   `mapstructure:"response"`
	FollowupAction string   `mapstructure:"followup_action"`
}

type Fallback struct {
	Buckets         []Bucket `mapstructure:"buckets"`
	DefaultResponse string   `mapstructure:"default_response"`
}

type SentimentWords struct {
	Positive []string `mapstructure:"positive"`
	Negative []string `mapstructure:"negative"`
}

// ServiceReplies holds one apology per failure kind.
type ServiceReplies struct {
	Status     string `mapstructure:"status"`
	Connection string `mapstructure:"connection"`
	Malformed  string `mapstructure:"malformed"`
	Unexpected string `mapstructure:"unexpected"`
}

type DegradationTexts struct {
	Catalog ServiceReplies `mapstructure:"catalog"`
}

// SchemaError lists every schema violation found in a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "content: document does not match schema:\n  " + strings.Join(e.Problems, "\n  ")
}

// Default returns the embedded document.
func Default() (*Content, error) {
	return Parse(defaultDocument)
}

// DefaultDocument returns the raw embedded YAML.
func DefaultDocument() []byte {
	return defaultDocument
}

// Load reads the document at path, or the embedded one when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", path, err)
	}
	return c, nil
}

// Parse validates and decodes a YAML document.
func Parse(data []byte) (*Content, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("content: parse yaml: %w", err)
	}
	if tree == nil {
		return nil, &SchemaError{Problems: []string{"(root): document is empty"}}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaDocument),
		gojsonschema.NewGoLoader(tree),
	)
	if err != nil {
		return nil, fmt.Errorf("content: validate: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, &SchemaError{Problems: problems}
	}

	var c Content
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &c,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(tree); err != nil {
		return nil, fmt.Errorf("content: decode: %w", err)
	}
	return &c, nil
}

// Teacher finds a teacher by key or first name, ignoring case and accents.
func (c *Content) Teacher(name string) (Teacher, bool) {
	want := stringutil.Fold(strings.TrimSpace(name))
	for _, t := range c.Teachers {
		if want == t.Key || want == stringutil.Fold(firstWord(t.Name)) {
			return t, true
		}
	}
	return Teacher{}, false
}

// TeacherFirstNames returns the first names in roster order.
func (c *Content) TeacherFirstNames() []string {
	names := make([]string, 0, len(c.Teachers))
	for _, t := range c.Teachers {
		names = append(names, firstWord(t.Name))
	}
	return names
}

// Recommendation returns the recommendation for a skill level.
func (c *Content) Recommendation(level string) (LevelRecommendation, bool) {
	want := stringutil.Fold(strings.TrimSpace(level))
	for _, r := range c.Recommendations.Levels {
		if stringutil.Fold(r.Level) == want {
			return r, true
		}
	}
	return LevelRecommendation{}, false
}

// IsSessionType reports whether s names a bookable session type.
func (c *Content) IsSessionType(s string) bool {
	want := stringutil.Fold(strings.TrimSpace(s))
	for _, t := range c.SessionTypes {
		if stringutil.Fold(t) == want {
			return true
		}
	}
	return false
}

// SessionPrice returns the price for a session type, or the default price.
func (c *Content) SessionPrice(sessionType string) int {
	want := stringutil.Fold(strings.TrimSpace(sessionType))
	for name, price := range c.Booking.SessionPrices {
		if stringutil.Fold(name) == want {
			return price
		}
	}
	return c.Booking.DefaultPrice
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i]
	}
	return s
}
