package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBackfillsDefaults(t *testing.T) {
	// Shape written before priority, status, reflections and annotations existed.
	raw := `{"id": 1700000000000, "title": "Dune", "author": "Frank Herbert", "totalPages": 412, "currentPage": 30, "notes": ""}`

	var b Book
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	got := Normalize(b)

	assert.Equal(t, StatusReading, got.Status)
	assert.Equal(t, PriorityNone, got.Priority)
	assert.Equal(t, DefaultCoverURL, got.CoverURL)
	assert.NotNil(t, got.PageReflections)
	assert.Empty(t, got.PageReflections)
	assert.NotNil(t, got.PDFAnnotations)
	assert.Empty(t, got.PDFAnnotations)
	assert.Equal(t, 30, got.CurrentPage)
	assert.Equal(t, 412, got.TotalPages)
}

func TestNormalizeKeepsValidFields(t *testing.T) {
	b := Book{
		ID:              3,
		Title:           "Middlemarch",
		CoverURL:        "https://covers.example/m.jpg",
		TotalPages:      880,
		CurrentPage:     12,
		Status:          StatusLater,
		Priority:        PriorityHigh,
		PageReflections: []Reflection{{ID: "r1", Page: 3, Text: "slow start"}},
		PDFAnnotations:  []Annotation{{ID: "a1", Page: 1, Type: AnnotationHighlight}},
	}

	assert.Equal(t, b, Normalize(b))
}

func TestNormalizeUnknownEnums(t *testing.T) {
	got := Normalize(Book{Status: "paused", Priority: "urgent"})

	assert.Equal(t, StatusReading, got.Status)
	assert.Equal(t, PriorityNone, got.Priority)
}

func TestNormalizeLeavesZeroTotal(t *testing.T) {
	got := Normalize(Book{TotalPages: 0, CurrentPage: -3})

	assert.Equal(t, 0, got.TotalPages)
	assert.Equal(t, 0, got.CurrentPage)
	assert.Equal(t, 0, ProgressPercentage(got))
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name            string
		page, low, high int
		want            int
	}{
		{name: "inside", page: 5, low: 0, high: 10, want: 5},
		{name: "above", page: 15, low: 0, high: 10, want: 10},
		{name: "below", page: -1, low: 0, high: 10, want: 0},
		{name: "reflection floor", page: 0, low: 1, high: 10, want: 1},
		{name: "inverted bounds", page: 3, low: 1, high: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPage(tt.page, tt.low, tt.high))
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := Book{
		PageReflections: []Reflection{{ID: "r1", Page: 1}},
		PDFAnnotations:  []Annotation{{ID: "a1", Position: &Position{X: 1}}},
	}

	c := b.Clone()
	c.PageReflections[0].Text = "changed"
	c.PDFAnnotations[0].Position.X = 99

	assert.Empty(t, b.PageReflections[0].Text)
	assert.Equal(t, float64(1), b.PDFAnnotations[0].Position.X)
}
