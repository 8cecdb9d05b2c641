package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-gateway/pkg/lifecycle"
)

func TestEnrichFacets(t *testing.T) {
	nodes := []lifecycle.TaxonomyNode{{
		Code: "subject",
		Terms: []lifecycle.TaxonomyTerm{
			{Name: "Math", Index: intp(2), Description: "Mathematics", Count: intp(40), Translations: `{"hi":"गणित","en":"Math"}`},
			{Name: "Science", Index: intp(1), Description: "Science", Count: intp(25)},
		},
	}}

	t.Run("annotates and reorders matched values", func(t *testing.T) {
		facets := []lifecycle.SearchFacet{{
			Name: "subject",
			Values: []lifecycle.FacetValue{
				{Name: "math", Count: 12},
				{Name: "Science", Count: 7},
			},
		}}

		lifecycle.EnrichFacets(facets, nodes, "hi", nil)

		values := facets[0].Values
		require.Len(t, values, 2)
		assert.Equal(t, "Science", values[0].Name)
		assert.Equal(t, "math", values[1].Name)

		require.NotNil(t, values[0].Index)
		assert.Equal(t, 1, *values[0].Index)
		assert.Equal(t, "Science", values[0].Description)
		assert.Equal(t, 25, values[0].Count)

		require.NotNil(t, values[1].Translations)
		assert.Equal(t, "गणित", *values[1].Translations)
	})

	t.Run("unmatched values keep their position after matched ones", func(t *testing.T) {
		facets := []lifecycle.SearchFacet{{
			Name: "subject",
			Values: []lifecycle.FacetValue{
				{Name: "alchemy"},
				{Name: "math"},
				{Name: "astrology"},
			},
		}}

		lifecycle.EnrichFacets(facets, nodes, "en", nil)

		names := []string{facets[0].Values[0].Name, facets[0].Values[1].Name, facets[0].Values[2].Name}
		assert.Equal(t, []string{"math", "alchemy", "astrology"}, names)
		assert.Nil(t, facets[0].Values[1].Index)
		assert.Nil(t, facets[0].Values[2].Index)
	})

	t.Run("term without a count keeps the bucket count", func(t *testing.T) {
		countless := []lifecycle.TaxonomyNode{{
			Code: "subject",
			Terms: []lifecycle.TaxonomyTerm{
				{Name: "Math", Index: intp(2), Description: "Mathematics"},
			},
		}}
		facets := []lifecycle.SearchFacet{{
			Name:   "subject",
			Values: []lifecycle.FacetValue{{Name: "math", Count: 12}},
		}}

		lifecycle.EnrichFacets(facets, countless, "en", nil)

		value := facets[0].Values[0]
		assert.Equal(t, 12, value.Count, "bucket count must survive a countless term")
		require.NotNil(t, value.Index)
		assert.Equal(t, 2, *value.Index)
		assert.Equal(t, "Mathematics", value.Description)
	})

	t.Run("term without an index leaves the value unindexed", func(t *testing.T) {
		indexless := []lifecycle.TaxonomyNode{{
			Code: "subject",
			Terms: []lifecycle.TaxonomyTerm{
				{Name: "Alchemy", Description: "Alchemy"},
				{Name: "Science", Index: intp(1)},
			},
		}}
		facets := []lifecycle.SearchFacet{{
			Name: "subject",
			Values: []lifecycle.FacetValue{
				{Name: "alchemy"},
				{Name: "Science"},
			},
		}}

		lifecycle.EnrichFacets(facets, indexless, "en", nil)

		// An indexless term must not mint index 0 and jump the queue.
		assert.Equal(t, "Science", facets[0].Values[0].Name)
		assert.Equal(t, "alchemy", facets[0].Values[1].Name)
		assert.Nil(t, facets[0].Values[1].Index)
		assert.Equal(t, "Alchemy", facets[0].Values[1].Description)
	})

	t.Run("facets without a matching node are untouched", func(t *testing.T) {
		facets := []lifecycle.SearchFacet{{
			Name:   "mimeType",
			Values: []lifecycle.FacetValue{{Name: "application/pdf", Count: 3}},
		}}

		lifecycle.EnrichFacets(facets, nodes, "en", nil)

		assert.Equal(t, "application/pdf", facets[0].Values[0].Name)
		assert.Empty(t, facets[0].Values[0].Description)
		assert.Nil(t, facets[0].Values[0].Index)
	})

	t.Run("missing locale yields no translation", func(t *testing.T) {
		facets := []lifecycle.SearchFacet{{
			Name:   "subject",
			Values: []lifecycle.FacetValue{{Name: "Math"}},
		}}

		lifecycle.EnrichFacets(facets, nodes, "fr", nil)

		assert.Nil(t, facets[0].Values[0].Translations)
	})

	t.Run("unparseable translations are skipped", func(t *testing.T) {
		broken := []lifecycle.TaxonomyNode{{
			Code: "subject",
			Terms: []lifecycle.TaxonomyTerm{
				{Name: "Math", Index: intp(1), Translations: `{not json`},
			},
		}}
		facets := []lifecycle.SearchFacet{{
			Name:   "subject",
			Values: []lifecycle.FacetValue{{Name: "Math"}},
		}}

		lifecycle.EnrichFacets(facets, broken, "en", nil)

		require.NotNil(t, facets[0].Values[0].Index)
		assert.Nil(t, facets[0].Values[0].Translations)
	})
}
