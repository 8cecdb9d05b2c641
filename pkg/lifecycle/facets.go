package lifecycle

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
)

// EnrichFacets merges taxonomy metadata into search facets in place. For
// each facet whose name matches a taxonomy node's code, every value whose
// name matches a term name case-insensitively receives the term's
// description, index and count, and the locale-resolved translation. Only
// fields the term actually carries are copied; a term without a count
// leaves the value's bucket count alone. After annotation the facet's
// values are stable-sorted ascending by index; values without a matched
// index sort after all indexed ones, retaining their relative order.
// Values are never added or removed. log may be nil.
func EnrichFacets(facets []SearchFacet, nodes []TaxonomyNode, locale string, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	for fi := range facets {
		facet := &facets[fi]
		for _, node := range nodes {
			if node.Code != facet.Name {
				continue
			}
			for vi := range facet.Values {
				annotateValue(&facet.Values[vi], node.Terms, locale, log)
			}
			sort.SliceStable(facet.Values, func(a, b int) bool {
				ia, ib := facet.Values[a].Index, facet.Values[b].Index
				if ia == nil || ib == nil {
					return ia != nil && ib == nil
				}
				return *ia < *ib
			})
		}
	}
}

func annotateValue(value *FacetValue, terms []TaxonomyTerm, locale string, log *slog.Logger) {
	for _, term := range terms {
		if !strings.EqualFold(value.Name, term.Name) {
			continue
		}
		if term.Description != "" {
			value.Description = term.Description
		}
		if term.Index != nil {
			index := *term.Index
			value.Index = &index
		}
		if term.Count != nil {
			value.Count = *term.Count
		}
		if t := resolveTranslation(term.Translations, locale, log); t != nil {
			value.Translations = t
		}
	}
}

// resolveTranslation extracts the locale's string from a term's raw
// locale-to-string JSON blob. Parse failures and missing locales yield an
// absent translation rather than an error.
func resolveTranslation(blob, locale string, log *slog.Logger) *string {
	if blob == "" {
		return nil
	}
	var byLocale map[string]string
	if err := json.Unmarshal([]byte(blob), &byLocale); err != nil {
		log.Debug("unparseable term translations", "error", err)
		return nil
	}
	if s, ok := byLocale[locale]; ok && s != "" {
		return &s
	}
	return nil
}

// enrichResultFacets decodes the facets of a raw provider search result,
// enriches them, and re-marshals them into a copy of the result. The
// second return is false when the result has no decodable facets.
func enrichResultFacets(result map[string]json.RawMessage, nodes []TaxonomyNode, locale string, log *slog.Logger) (map[string]json.RawMessage, bool) {
	raw, ok := result["facets"]
	if !ok {
		return result, false
	}
	var facets []SearchFacet
	if err := json.Unmarshal(raw, &facets); err != nil || len(facets) == 0 {
		return result, false
	}

	EnrichFacets(facets, nodes, locale, log)

	b, err := json.Marshal(facets)
	if err != nil {
		return result, false
	}
	out := make(map[string]json.RawMessage, len(result))
	for k, v := range result {
		out[k] = v
	}
	out["facets"] = b
	return out, true
}
