package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/legal-intake/internal/entity"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestClassifyAdult(t *testing.T) {
	today := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	e := classifyAt(date(2000, 1, 1), "10001", today)

	assert.False(t, e.RequiresParentalSignature)
	assert.False(t, e.RequiresFloridaDisclosure)
	assert.Equal(t, entity.TemplateRetainerAdult, e.RetainerTemplate)
}

func TestClassifyMinor(t *testing.T) {
	today := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	e := classifyAt(date(2010, 1, 1), "10001", today)

	assert.True(t, e.RequiresParentalSignature)
	assert.Equal(t, entity.TemplateRetainerMinor, e.RetainerTemplate)
}

func TestClassifyEighteenthBirthdayBoundary(t *testing.T) {
	today := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	// Turns 18 tomorrow: still a minor today.
	e := classifyAt(date(2008, 6, 16), "10001", today)
	assert.True(t, e.RequiresParentalSignature)

	// Turned 18 today: adult.
	e = classifyAt(date(2008, 6, 15), "10001", today)
	assert.False(t, e.RequiresParentalSignature)
}

func TestClassifyMissingDOBIsMinor(t *testing.T) {
	e := Classify(nil, "10001")

	assert.True(t, e.RequiresParentalSignature)
	assert.Equal(t, entity.TemplateRetainerMinor, e.RetainerTemplate)
}

func TestClassifyMinorInFlorida(t *testing.T) {
	today := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	e := classifyAt(date(2010, 3, 10), "33101", today)

	assert.True(t, e.RequiresParentalSignature)
	assert.True(t, e.RequiresFloridaDisclosure)
	assert.Equal(t, entity.TemplateRetainerMinor, e.RetainerTemplate)
}

func TestRequiresFloridaDisclosure(t *testing.T) {
	cases := []struct {
		zip  string
		want bool
	}{
		{"32003", true},  // lower bound
		{"34997", true},  // upper bound
		{"33101", true},  // Miami
		{"32002", false}, // just below
		{"34998", false}, // just above
		{"33101-1234", true}, // ZIP+4 uses the prefix
		{"10001", false},
		{"abc", false},
		{"", false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, RequiresFloridaDisclosure(c.zip), "zip %q", c.zip)
	}
}

func TestAgeOn(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 18, ageOn(time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 17, ageOn(time.Date(2008, 9, 2, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 18, ageOn(time.Date(2008, 3, 15, 0, 0, 0, 0, time.UTC), today))
}
