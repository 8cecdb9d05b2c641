package lifecycle

import (
	"encoding/json"
	"fmt"
)

// ContentStatus is the provider-defined lifecycle state of a content item.
// The enumeration is owned by the provider; only Draft participates in local
// decisions, the rest is carried opaquely.
type ContentStatus string

const (
	StatusDraft   ContentStatus = "Draft"
	StatusReview  ContentStatus = "Review"
	StatusLive    ContentStatus = "Live"
	StatusRetired ContentStatus = "Retired"
)

// BadgeAssertion links a content item to an externally issued badge. An
// assertion is uniquely identified by the (AssertionID, BadgeID, IssuerID)
// triple.
type BadgeAssertion struct {
	AssertionID string `json:"assertionId"`
	BadgeID     string `json:"badgeId"`
	IssuerID    string `json:"issuerId"`
}

// SameBadge reports whether two assertions carry the same triple key.
func (b BadgeAssertion) SameBadge(o BadgeAssertion) bool {
	return b.AssertionID == o.AssertionID && b.BadgeID == o.BadgeID && b.IssuerID == o.IssuerID
}

// ContentItem is the request-scoped view of a provider content item. Only
// the fields this layer makes decisions on are modeled; everything else
// stays with the provider.
type ContentItem struct {
	Identifier      string           `json:"identifier"`
	Status          ContentStatus    `json:"status"`
	CreatedBy       string           `json:"createdBy"`
	Collaborators   []string         `json:"collaborators,omitempty"`
	VersionKey      string           `json:"versionKey,omitempty"`
	BadgeAssertions []BadgeAssertion `json:"badgeAssertions,omitempty"`
}

// FacetValue is a single bucket within a search facet. Description, Index,
// Count and Translations are populated by facet enrichment when the value
// matches a taxonomy term; Index is nil for values with no match so they
// sort after indexed ones.
type FacetValue struct {
	Name         string  `json:"name"`
	Count        int     `json:"count,omitempty"`
	Description  string  `json:"description,omitempty"`
	Index        *int    `json:"index,omitempty"`
	Translations *string `json:"translations,omitempty"`
}

// SearchFacet is a named aggregation dimension in a search result.
type SearchFacet struct {
	Name   string       `json:"name"`
	Values []FacetValue `json:"values"`
}

// TaxonomyTerm is a single term within a framework category. Translations
// holds the provider's raw locale-to-string JSON blob. Index and Count are
// pointers so that a term carrying neither can be told apart from a term
// carrying zero; enrichment copies only fields the term actually has.
type TaxonomyTerm struct {
	Name         string `json:"name"`
	Translations string `json:"translations,omitempty"`
	Description  string `json:"description,omitempty"`
	Index        *int   `json:"index,omitempty"`
	Count        *int   `json:"count,omitempty"`
}

// TaxonomyNode is a framework category. Its Code corresponds 1:1 to a
// SearchFacet name.
type TaxonomyNode struct {
	Code  string         `json:"code"`
	Terms []TaxonomyTerm `json:"terms"`
}

// Framework is a taxonomy document fetched from the provider and cached by
// TaxonomyCache.
type Framework struct {
	Identifier string         `json:"identifier"`
	Categories []TaxonomyNode `json:"categories"`
}

// RetireFailure records a single failed item of a batch retire.
type RetireFailure struct {
	ContentID string `json:"contentId"`
	ErrCode   string `json:"errCode"`
	ErrMsg    string `json:"errMsg"`
}

// BatchOutcome aggregates per-item results of a batch operation. Failed is
// ordered by the item's position in the request; an empty list means full
// success. When failures occurred, ErrCode, ErrMsg and Status carry the
// aggregate error reported to the caller.
type BatchOutcome struct {
	Failed  []RetireFailure `json:"failed"`
	ErrCode string          `json:"-"`
	ErrMsg  string          `json:"-"`
	Status  int             `json:"-"`
}

// OK reports whether every item of the batch succeeded.
func (o *BatchOutcome) OK() bool { return len(o.Failed) == 0 }

// ResponseCodeOK is the provider's success response code.
const ResponseCodeOK = "OK"

// ResponseParams carries the provider's machine error code and message.
type ResponseParams struct {
	Status string `json:"status,omitempty"`
	Err    string `json:"err,omitempty"`
	ErrMsg string `json:"errmsg,omitempty"`
}

// ProviderResponse is the provider's result envelope. Result keys are kept
// raw and decoded per operation; Status is the HTTP-style status hint set by
// the transport. Any non-OK response code is treated as failure regardless
// of transport-level success.
type ProviderResponse struct {
	ResponseCode string                     `json:"responseCode"`
	Params       ResponseParams             `json:"params"`
	Result       map[string]json.RawMessage `json:"result"`
	Status       int                        `json:"-"`
}

// OK reports whether the provider reported success.
func (r *ProviderResponse) OK() bool {
	return r != nil && r.ResponseCode == ResponseCodeOK
}

// Decode unmarshals a result key into v. Missing keys are an error.
func (r *ProviderResponse) Decode(key string, v interface{}) error {
	raw, ok := r.Result[key]
	if !ok {
		return fmt.Errorf("provider result has no %q", key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode provider result %q: %w", key, err)
	}
	return nil
}

// Content decodes the single content item of a read response.
func (r *ProviderResponse) Content() (*ContentItem, error) {
	var item ContentItem
	if err := r.Decode("content", &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Contents decodes the content list of a search response.
func (r *ProviderResponse) Contents() ([]ContentItem, error) {
	var items []ContentItem
	if err := r.Decode("content", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// StringField returns a string-valued result field, or "" when absent or
// not a string.
func (r *ProviderResponse) StringField(key string) string {
	var s string
	if raw, ok := r.Result[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}
