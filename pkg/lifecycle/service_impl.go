package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// defaultCodePrefix is prepended to the random suffix of generated content
// codes.
const defaultCodePrefix = "org.sunbird."

// defaultLocale resolves facet translations when a request names no locale.
const defaultLocale = "en"

// notifyTimeout bounds a detached notification delivery.
const notifyTimeout = 10 * time.Second

// service implements the Service interface.
type service struct {
	provider   Provider
	cacheStore CacheStore
	guard      *VersionGuard
	locks      *LockValidator
	taxonomy   *TaxonomyCache
	validator  RequestValidator
	notifier   Notifier
	log        *slog.Logger
	codePrefix string
	locale     string
}

// Option represents a functional option for configuring the service.
type Option func(*service)

// WithProvider sets the content provider client. Required.
func WithProvider(p Provider) Option {
	return func(s *service) { s.provider = p }
}

// WithCacheStore sets the shared store backing the taxonomy cache. Without
// one, every framework lookup goes to the provider.
func WithCacheStore(store CacheStore) Option {
	return func(s *service) { s.cacheStore = store }
}

// WithValidator sets the request validator. Without one, field-profile
// validation is skipped (presence checks still apply).
func WithValidator(v RequestValidator) Option {
	return func(s *service) { s.validator = v }
}

// WithNotifier sets the notification collaborator.
func WithNotifier(n Notifier) Option {
	return func(s *service) { s.notifier = n }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *service) { s.log = log }
}

// WithCodePrefix overrides the prefix of generated content codes.
func WithCodePrefix(prefix string) Option {
	return func(s *service) { s.codePrefix = prefix }
}

// WithDefaultLocale sets the locale used for facet translations when a
// search request names none.
func WithDefaultLocale(locale string) Option {
	return func(s *service) { s.locale = locale }
}

// New creates a new service instance with the given options.
func New(options ...Option) (Service, error) {
	s := &service{
		codePrefix: defaultCodePrefix,
		locale:     defaultLocale,
	}

	for _, option := range options {
		option(s)
	}

	if s.provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.notifier == nil {
		s.notifier = NewNoopNotifier()
	}

	s.guard = NewVersionGuard(s.provider)
	s.locks = NewLockValidator(s.provider)
	s.taxonomy = NewTaxonomyCache(s.provider, s.cacheStore, s.log)

	return s, nil
}

// requestBody wraps a payload the way the provider expects:
// {"request": {<key>: <v>}}.
func requestBody(key string, v interface{}) map[string]interface{} {
	return map[string]interface{}{
		"request": map[string]interface{}{key: v},
	}
}

// newCode generates a human-readable content code: fixed prefix plus a
// short random suffix.
func (s *service) newCode() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return s.codePrefix + suffix
}

// notifyAsync dispatches a notification without awaiting it. Failures are
// logged at debug level and never affect the operation that triggered them.
func (s *service) notifyAsync(kind EventKind, contentID, userID string) {
	if s.notifier == nil {
		return
	}
	event := NotificationEvent{Kind: kind, ContentID: contentID, UserID: userID}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, event); err != nil {
			s.log.Debug("notification failed", "kind", kind, "content_id", contentID, "error", err)
		}
	}()
}

// validate runs the field-profile validator when one is configured.
func (s *service) validate(op string, payload map[string]interface{}, profile string) error {
	if s.validator == nil {
		return nil
	}
	if err := s.validator.Validate(payload, profile); err != nil {
		return &ValidationError{Op: op, Reason: err.Error()}
	}
	return nil
}

// Lifecycle operations

func (s *service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if req.Content == nil {
		return nil, &ValidationError{Op: opCreate, Reason: messageFor(opCreate).MissingMessage}
	}
	if err := s.validate(opCreate, req.Content, ProfileCreate); err != nil {
		return nil, err
	}

	req.Content["code"] = s.newCode()

	res, err := s.provider.Create(ctx, requestBody("content", req.Content), req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opCreate, res, err)
	}

	result := &CreateResult{
		ContentID:  res.StringField("node_id"),
		VersionKey: res.StringField("versionKey"),
	}
	s.log.Info("content created", "content_id", result.ContentID)
	return result, nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*UpdateResult, error) {
	if req.ContentID == "" || req.Content == nil {
		return nil, &ValidationError{Op: opUpdate, Reason: messageFor(opUpdate).MissingMessage}
	}
	if err := s.validate(opUpdate, req.Content, ProfileUpdate); err != nil {
		return nil, err
	}

	// Optimistic concurrency: every update carries the token fetched just
	// now, never a cached one. The provider is the sole arbiter of
	// conflicts.
	versionKey, err := s.guard.CurrentVersion(ctx, req.ContentID, req.Headers)
	if err != nil {
		return nil, err
	}
	req.Content["versionKey"] = versionKey

	res, err := s.provider.Update(ctx, requestBody("content", req.Content), req.ContentID, req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opUpdate, res, err)
	}

	result := &UpdateResult{
		ContentID:  res.StringField("node_id"),
		VersionKey: res.StringField("versionKey"),
	}
	s.log.Info("content updated", "content_id", req.ContentID)
	return result, nil
}

func (s *service) Review(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	if req.ContentID == "" {
		return nil, &ValidationError{Op: opReview, Reason: "content id is required"}
	}

	res, err := s.provider.Review(ctx, requestBody("content", req.Content), req.ContentID, req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opReview, res, err)
	}

	s.notifyAsync(EventReviewRequested, req.ContentID, "")
	return &TransitionResult{
		ContentID:  res.StringField("node_id"),
		VersionKey: res.StringField("versionKey"),
	}, nil
}

func (s *service) Publish(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	return s.publish(ctx, req, opPublish, EventPublished, s.provider.Publish)
}

func (s *service) UnlistedPublish(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	return s.publish(ctx, req, opUnlistedPublish, EventUnlistedPublished, s.provider.UnlistedPublish)
}

type providerTransition func(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)

func (s *service) publish(ctx context.Context, req TransitionRequest, op string, event EventKind, call providerTransition) (*TransitionResult, error) {
	publishedBy, _ := req.Content["lastPublishedBy"].(string)
	if req.ContentID == "" || publishedBy == "" {
		return nil, &ValidationError{Op: op, Reason: messageFor(op).MissingMessage}
	}

	res, err := call(ctx, requestBody("content", req.Content), req.ContentID, req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(op, res, err)
	}

	s.notifyAsync(event, req.ContentID, publishedBy)
	return &TransitionResult{
		ContentID:     res.StringField("node_id"),
		VersionKey:    res.StringField("versionKey"),
		PublishStatus: res.StringField("publishStatus"),
	}, nil
}

func (s *service) Reject(ctx context.Context, req TransitionRequest) (map[string]json.RawMessage, error) {
	if req.ContentID == "" {
		return nil, &ValidationError{Op: opReject, Reason: messageFor(opReject).MissingMessage}
	}

	res, err := s.provider.Reject(ctx, requestBody("content", req.Content), req.ContentID, req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opReject, res, err)
	}

	s.notifyAsync(EventRejected, req.ContentID, "")
	return res.Result, nil
}

func (s *service) RetireBatch(ctx context.Context, req RetireBatchRequest) (*BatchOutcome, error) {
	if len(req.ContentIDs) == 0 {
		return nil, &ValidationError{Op: opRetire, Reason: messageFor(opRetire).MissingMessage}
	}

	// Every item must belong to the acting user, otherwise the whole batch
	// is refused before any retire call is issued.
	searchBody := requestBody("search", map[string]interface{}{"identifier": req.ContentIDs})
	res, err := s.provider.Search(ctx, searchBody, req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opSearch, res, err)
	}
	items, err := res.Contents()
	if err != nil {
		return nil, upstreamError(opSearch, res, err)
	}
	owners := make(map[string]struct{}, 1)
	for _, item := range items {
		owners[item.CreatedBy] = struct{}{}
	}
	if _, ok := owners[req.ActingUserID]; !ok || len(owners) != 1 {
		return nil, &AuthorizationError{
			Op:     opRetire,
			UserID: req.ActingUserID,
			Reason: "content createdBy and user id did not match",
		}
	}

	// Per-item retires run concurrently and always to completion; failures
	// are collected per item instead of aborting the batch.
	type itemFailure struct {
		failure RetireFailure
		status  int
	}
	failures := make([]*itemFailure, len(req.ContentIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, contentID := range req.ContentIDs {
		i, contentID := i, contentID
		g.Go(func() error {
			res, err := s.provider.Retire(gctx, contentID, req.Headers)
			if err == nil && res.OK() {
				return nil
			}
			ue := upstreamError(opRetire, res, err)
			s.log.Warn("retire failed", "content_id", contentID, "err_code", ue.Code)
			failures[i] = &itemFailure{
				failure: RetireFailure{ContentID: contentID, ErrCode: ue.Code, ErrMsg: ue.Message},
				status:  ue.Status,
			}
			return nil
		})
	}
	_ = g.Wait()

	outcome := &BatchOutcome{Failed: []RetireFailure{}}
	for _, f := range failures {
		if f == nil {
			continue
		}
		outcome.Failed = append(outcome.Failed, f.failure)
		// The aggregate carries the code of the failed item highest in
		// request order; the full per-item list is always returned.
		outcome.ErrCode = f.failure.ErrCode
		outcome.ErrMsg = f.failure.ErrMsg
		outcome.Status = f.status
	}
	return outcome, nil
}

func (s *service) Copy(ctx context.Context, req CopyRequest) (map[string]json.RawMessage, error) {
	if req.ContentID == "" {
		return nil, &ValidationError{Op: opCopy, Reason: messageFor(opCopy).MissingMessage}
	}

	res, err := s.provider.Copy(ctx, map[string]interface{}{"request": req.Request}, req.ContentID, req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opCopy, res, err)
	}
	return res.Result, nil
}

// Badge operations

func (s *service) AssignBadge(ctx context.Context, req BadgeRequest) (*BadgeResult, error) {
	if req.ContentID == "" || req.Assertion == (BadgeAssertion{}) {
		return nil, &ValidationError{Op: opAssignBadge, Reason: messageFor(opAssignBadge).MissingMessage}
	}

	item, err := s.fetchItem(ctx, req.ContentID, req.Headers)
	if err != nil {
		return nil, err
	}

	for _, badge := range item.BadgeAssertions {
		if badge.SameBadge(req.Assertion) {
			// Duplicate triple key: conflict signal, no update call.
			return &BadgeResult{Status: BadgeConflict}, nil
		}
	}

	badges := append(item.BadgeAssertions, req.Assertion)
	res, err := s.systemUpdateBadges(ctx, req.ContentID, badges, req.Headers)
	if err != nil {
		return nil, err
	}
	s.log.Info("badge assigned", "content_id", req.ContentID, "assertion_id", req.Assertion.AssertionID)
	return &BadgeResult{Status: BadgeAssigned, Result: res.Result}, nil
}

func (s *service) RevokeBadge(ctx context.Context, req BadgeRequest) (*BadgeResult, error) {
	if req.ContentID == "" || req.Assertion.AssertionID == "" {
		return nil, &ValidationError{Op: opRevokeBadge, Reason: messageFor(opRevokeBadge).MissingMessage}
	}

	item, err := s.fetchItem(ctx, req.ContentID, req.Headers)
	if err != nil {
		return nil, err
	}

	found := false
	badges := item.BadgeAssertions[:0:0]
	for _, badge := range item.BadgeAssertions {
		if badge.AssertionID == req.Assertion.AssertionID {
			found = true
			continue
		}
		badges = append(badges, badge)
	}
	if !found {
		// Absent assertion: not-found signal, no update call.
		return &BadgeResult{Status: BadgeMissing}, nil
	}
	if badges == nil {
		badges = []BadgeAssertion{}
	}

	res, err := s.systemUpdateBadges(ctx, req.ContentID, badges, req.Headers)
	if err != nil {
		return nil, err
	}
	s.log.Info("badge revoked", "content_id", req.ContentID, "assertion_id", req.Assertion.AssertionID)
	return &BadgeResult{Status: BadgeRevoked, Result: res.Result}, nil
}

func (s *service) fetchItem(ctx context.Context, contentID string, headers http.Header) (*ContentItem, error) {
	res, err := s.provider.GetByID(ctx, contentID, nil, headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opGet, res, err)
	}
	item, err := res.Content()
	if err != nil {
		return nil, upstreamError(opGet, res, err)
	}
	return item, nil
}

func (s *service) systemUpdateBadges(ctx context.Context, contentID string, badges []BadgeAssertion, headers http.Header) (*ProviderResponse, error) {
	body := requestBody("content", map[string]interface{}{"badgeAssertions": badges})
	res, err := s.provider.SystemUpdate(ctx, body, contentID, headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opUpdate, res, err)
	}
	return res, nil
}

// Read operations

func (s *service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if req.Filters == nil {
		return nil, &ValidationError{Op: opSearch, Reason: messageFor(opSearch).MissingMessage}
	}

	filters := make(map[string]interface{}, len(req.Filters)+1)
	for k, v := range req.Filters {
		filters[k] = v
	}
	if len(req.ObjectType) > 0 {
		filters["objectType"] = req.ObjectType
	}
	request := map[string]interface{}{"filters": filters}
	if len(req.Fields) > 0 {
		request["fields"] = req.Fields
	}

	res, err := s.provider.Search(ctx, map[string]interface{}{"request": request}, req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opSearch, res, err)
	}

	result := &SearchResult{Result: res.Result, Count: resultCount(res)}
	if req.FrameworkID == "" {
		return result, nil
	}

	// Framework resolution failures degrade to the unenriched result
	// instead of failing the whole search.
	framework, err := s.taxonomy.GetOrFetch(ctx, req.FrameworkID, req.Headers)
	if err != nil {
		s.log.Warn("framework resolution failed, returning unenriched result",
			"framework", req.FrameworkID, "error", err)
		return result, nil
	}

	locale := req.Locale
	if locale == "" {
		locale = s.locale
	}
	if enriched, ok := enrichResultFacets(result.Result, framework.Categories, locale, s.log); ok {
		result.Result = enriched
		result.Enriched = true
	}
	s.log.Info("content searched", "count", result.Count, "enriched", result.Enriched)
	return result, nil
}

func (s *service) Get(ctx context.Context, req GetRequest) (map[string]json.RawMessage, error) {
	if req.ContentID == "" {
		return nil, &ValidationError{Op: opGet, Reason: messageFor(opGet).MissingMessage}
	}
	res, err := s.provider.GetByID(ctx, req.ContentID, req.Query, req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opGet, res, err)
	}
	return res.Result, nil
}

func (s *service) MyContent(ctx context.Context, req MyContentRequest) (*SearchResult, error) {
	if req.CreatedBy == "" {
		return nil, &ValidationError{Op: opMyContent, Reason: "createdBy is required"}
	}

	body := requestBody("filters", map[string]interface{}{
		"createdBy":  req.CreatedBy,
		"objectType": []string{"Content"},
	})
	res, err := s.provider.Search(ctx, body, req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opMyContent, res, err)
	}
	return &SearchResult{Result: res.Result, Count: resultCount(res)}, nil
}

// Flag operations

func (s *service) Flag(ctx context.Context, req FlagRequest) (map[string]json.RawMessage, error) {
	return s.flag(ctx, req, opFlag, s.provider.Flag, "")
}

func (s *service) AcceptFlag(ctx context.Context, req FlagRequest) (map[string]json.RawMessage, error) {
	return s.flag(ctx, req, opAcceptFlag, s.provider.AcceptFlag, EventFlagAccepted)
}

func (s *service) RejectFlag(ctx context.Context, req FlagRequest) (map[string]json.RawMessage, error) {
	return s.flag(ctx, req, opRejectFlag, s.provider.RejectFlag, EventFlagRejected)
}

func (s *service) flag(ctx context.Context, req FlagRequest, op string, call providerTransition, event EventKind) (map[string]json.RawMessage, error) {
	if req.ContentID == "" || req.Request == nil {
		return nil, &ValidationError{Op: op, Reason: messageFor(op).MissingMessage}
	}

	res, err := call(ctx, map[string]interface{}{"request": req.Request}, req.ContentID, req.Headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(op, res, err)
	}
	if event != "" {
		s.notifyAsync(event, req.ContentID, "")
	}
	return res.Result, nil
}

// Lock validation

func (s *service) ValidateLock(ctx context.Context, req LockValidationRequest) (*LockDecision, error) {
	return s.locks.Validate(ctx, req)
}

func resultCount(res *ProviderResponse) int {
	var count int
	if raw, ok := res.Result["count"]; ok {
		_ = json.Unmarshal(raw, &count)
	}
	return count
}
