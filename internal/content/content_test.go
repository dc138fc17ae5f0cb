package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Teachers, 3)
	assert.Len(t, c.Schedule, 7)
	assert.Equal(t, "Lunes", c.Schedule[0].Day)
	assert.Equal(t, c.Schedule[0].Classes, c.Schedule[2].Classes, "anchored weekday lists are shared")
	assert.Len(t, c.ClassPricing, 8)
	assert.Len(t, c.Availability, 5)
	assert.Equal(t, 80, c.Booking.DefaultPrice)
	assert.Equal(t, "SoulPath Wellness", c.Studio.Name)

	require.Len(t, c.Fallback.Buckets, 5)
	assert.Equal(t, "pricing", c.Fallback.Buckets[0].Name)
	assert.Equal(t, "action_fetch_packages", c.Fallback.Buckets[0].FollowupAction)
	assert.Equal(t, "utter_default", c.Fallback.DefaultResponse)

	assert.Contains(t, c.Sentiment.Negative, "no")
	assert.NotEmpty(t, c.Degradation.Catalog.Connection)
}

func TestContent_Lookups(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	teacher, ok := c.Teacher("María")
	require.True(t, ok)
	assert.Equal(t, "María González", teacher.Name)

	_, ok = c.Teacher("CARLOS")
	assert.True(t, ok)
	_, ok = c.Teacher("pedro")
	assert.False(t, ok)

	assert.Equal(t, []string{"María", "Carlos", "Ana"}, c.TeacherFirstNames())

	rec, ok := c.Recommendation("Intermedio")
	require.True(t, ok)
	assert.Contains(t, rec.Classes, "Power Yoga")

	assert.True(t, c.IsSessionType("Tarot"))
	assert.True(t, c.IsSessionType("astrologia"))
	assert.False(t, c.IsSessionType("reiki"))

	assert.Equal(t, 40, c.SessionPrice("Tarot"))
	assert.Equal(t, 120, c.SessionPrice("crecimiento personal"))
	assert.Equal(t, 80, c.SessionPrice(""))
	assert.Equal(t, 80, c.SessionPrice("unknown"))

	// Accepted and priced the same way, accents or not.
	for _, s := range []string{"numerologia", "Numerología", "NUMEROLOGIA"} {
		assert.True(t, c.IsSessionType(s), s)
		assert.Equal(t, 60, c.SessionPrice(s), s)
	}
}

func TestParse_SchemaErrors(t *testing.T) {
	doc := strings.Replace(string(DefaultDocument()), "default_price: 80", "default_price: ochenta", 1)
	doc = strings.Replace(doc, "response: utter_contact", "response: contact", 1)

	_, err := Parse([]byte(doc))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.GreaterOrEqual(t, len(schemaErr.Problems), 2, "every problem is reported")
	assert.Contains(t, err.Error(), "default_price")
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"not yaml", "studio: [unclosed"},
		{"missing sections", "studio:\n  name: X\n  contact_person: Y\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Teachers)

	path := filepath.Join(t.TempDir(), "content.yaml")
	doc := strings.Replace(string(DefaultDocument()), "name: SoulPath Wellness", "name: Estudio Luna", 1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Estudio Luna", c.Studio.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
