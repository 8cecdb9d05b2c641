package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/content-gateway/pkg/lifecycle"
)

// ContentHandler exposes the lifecycle service over HTTP.
type ContentHandler struct {
	service lifecycle.Service
}

// NewContentHandler creates a content handler.
func NewContentHandler(service lifecycle.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// Routes returns the routes for content lifecycle operations.
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/search", h.Search)
	r.Post("/content/search", h.SearchContent)

	r.Post("/content/create", h.Create)
	r.Patch("/content/update/{contentID}", h.Update)
	r.Get("/content/read/{contentID}", h.Get)
	r.Get("/content/mycontent/{createdBy}", h.MyContent)

	r.Post("/content/review/{contentID}", h.Review)
	r.Post("/content/publish/{contentID}", h.Publish)
	r.Post("/content/unlisted/publish/{contentID}", h.UnlistedPublish)
	r.Post("/content/reject/{contentID}", h.Reject)
	r.Delete("/content/retire", h.RetireBatch)
	r.Post("/content/copy/{contentID}", h.Copy)

	r.Post("/content/badge/assign/{contentID}", h.AssignBadge)
	r.Post("/content/badge/revoke/{contentID}", h.RevokeBadge)

	r.Post("/content/flag/{contentID}", h.Flag)
	r.Post("/content/flag/accept/{contentID}", h.AcceptFlag)
	r.Post("/content/flag/reject/{contentID}", h.RejectFlag)

	r.Post("/content/lock/validate", h.ValidateLock)

	return r
}

type requestEnvelope struct {
	Request json.RawMessage `json:"request"`
}

// decodeRequest unwraps the {"request": ...} envelope into v. An absent or
// empty body leaves v untouched so presence checks happen in the service.
func decodeRequest(r *http.Request, v interface{}) error {
	var env requestEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		return err
	}
	if len(env.Request) == 0 {
		return nil
	}
	return json.Unmarshal(env.Request, v)
}

func badRequestBody(w http.ResponseWriter, r *http.Request, id string) {
	respondFailure(w, r, id, http.StatusBadRequest, "ERR_INVALID_REQUEST_BODY", "Unable to parse request body", nil)
}

type contentPayload struct {
	Content map[string]interface{} `json:"content"`
}

func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.create"
	var payload contentPayload
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	result, err := h.service.Create(r.Context(), lifecycle.CreateRequest{
		Content: payload.Content,
		Headers: r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result)
}

func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.update"
	var payload contentPayload
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	result, err := h.service.Update(r.Context(), lifecycle.UpdateRequest{
		ContentID: chi.URLParam(r, "contentID"),
		Content:   payload.Content,
		Headers:   r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result)
}

func (h *ContentHandler) Review(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.review"
	var payload contentPayload
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	result, err := h.service.Review(r.Context(), lifecycle.TransitionRequest{
		ContentID: chi.URLParam(r, "contentID"),
		Content:   payload.Content,
		Headers:   r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result)
}

func (h *ContentHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.publish(w, r, "api.content.publish", h.service.Publish)
}

func (h *ContentHandler) UnlistedPublish(w http.ResponseWriter, r *http.Request) {
	h.publish(w, r, "api.content.unlisted.publish", h.service.UnlistedPublish)
}

func (h *ContentHandler) publish(w http.ResponseWriter, r *http.Request, id string,
	call func(ctx context.Context, req lifecycle.TransitionRequest) (*lifecycle.TransitionResult, error)) {
	var payload contentPayload
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	result, err := call(r.Context(), lifecycle.TransitionRequest{
		ContentID: chi.URLParam(r, "contentID"),
		Content:   payload.Content,
		Headers:   r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result)
}

func (h *ContentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.reject"
	var payload contentPayload
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	result, err := h.service.Reject(r.Context(), lifecycle.TransitionRequest{
		ContentID: chi.URLParam(r, "contentID"),
		Content:   payload.Content,
		Headers:   r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result)
}

func (h *ContentHandler) RetireBatch(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.retire"
	var payload struct {
		ContentIDs []string `json:"contentIds"`
	}
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	outcome, err := h.service.RetireBatch(r.Context(), lifecycle.RetireBatchRequest{
		ContentIDs:   payload.ContentIDs,
		ActingUserID: r.Header.Get(HeaderAuthenticatedUser),
		Headers:      r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	if !outcome.OK() {
		respondFailure(w, r, id, outcome.Status, outcome.ErrCode, outcome.ErrMsg, outcome.Failed)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, outcome.Failed)
}

func (h *ContentHandler) Copy(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.copy"
	var payload map[string]interface{}
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	result, err := h.service.Copy(r.Context(), lifecycle.CopyRequest{
		ContentID: chi.URLParam(r, "contentID"),
		Request:   payload,
		Headers:   r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result)
}

type badgePayload struct {
	Content struct {
		BadgeAssertion lifecycle.BadgeAssertion `json:"badgeAssertion"`
	} `json:"content"`
}

func (h *ContentHandler) AssignBadge(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.badge.assign"
	var payload badgePayload
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	result, err := h.service.AssignBadge(r.Context(), lifecycle.BadgeRequest{
		ContentID: chi.URLParam(r, "contentID"),
		Assertion: payload.Content.BadgeAssertion,
		Headers:   r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	if result.Status == lifecycle.BadgeConflict {
		respondConflict(w, r, id, http.StatusConflict, "CONFLICT", badgeMessage("badge already exist"))
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result.Result)
}

func (h *ContentHandler) RevokeBadge(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.badge.revoke"
	var payload badgePayload
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	result, err := h.service.RevokeBadge(r.Context(), lifecycle.BadgeRequest{
		ContentID: chi.URLParam(r, "contentID"),
		Assertion: payload.Content.BadgeAssertion,
		Headers:   r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	if result.Status == lifecycle.BadgeMissing {
		respondConflict(w, r, id, http.StatusNotFound, lifecycle.ResponseCodeOK, badgeMessage("badge not exist"))
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result.Result)
}

func badgeMessage(msg string) map[string]interface{} {
	return map[string]interface{}{
		"content": map[string]interface{}{"message": msg},
	}
}

func (h *ContentHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, "api.content.search", nil)
}

// SearchContent is the content-scoped search: the object type is forced.
func (h *ContentHandler) SearchContent(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, "api.content.search.content", []string{"Content"})
}

func (h *ContentHandler) search(w http.ResponseWriter, r *http.Request, id string, objectType []string) {
	var payload struct {
		Filters map[string]interface{} `json:"filters"`
	}
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	req := lifecycle.SearchRequest{
		Filters:     payload.Filters,
		ObjectType:  objectType,
		FrameworkID: r.URL.Query().Get("framework"),
		Locale:      r.URL.Query().Get("lang"),
		Headers:     r.Header,
	}
	if fields := r.URL.Query().Get("fields"); fields != "" {
		req.Fields = strings.Split(fields, ",")
	}

	result, err := h.service.Search(r.Context(), req)
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result.Result)
}

func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.read"
	result, err := h.service.Get(r.Context(), lifecycle.GetRequest{
		ContentID: chi.URLParam(r, "contentID"),
		Query:     r.URL.Query(),
		Headers:   r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result)
}

func (h *ContentHandler) MyContent(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.mycontent"
	result, err := h.service.MyContent(r.Context(), lifecycle.MyContentRequest{
		CreatedBy: chi.URLParam(r, "createdBy"),
		Headers:   r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result.Result)
}

func (h *ContentHandler) Flag(w http.ResponseWriter, r *http.Request) {
	h.flag(w, r, "api.content.flag", h.service.Flag)
}

func (h *ContentHandler) AcceptFlag(w http.ResponseWriter, r *http.Request) {
	h.flag(w, r, "api.content.flag.accept", h.service.AcceptFlag)
}

func (h *ContentHandler) RejectFlag(w http.ResponseWriter, r *http.Request) {
	h.flag(w, r, "api.content.flag.reject", h.service.RejectFlag)
}

func (h *ContentHandler) flag(w http.ResponseWriter, r *http.Request, id string,
	call func(ctx context.Context, req lifecycle.FlagRequest) (map[string]json.RawMessage, error)) {
	var payload map[string]interface{}
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	result, err := call(r.Context(), lifecycle.FlagRequest{
		ContentID: chi.URLParam(r, "contentID"),
		Request:   payload,
		Headers:   r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, result)
}

func (h *ContentHandler) ValidateLock(w http.ResponseWriter, r *http.Request) {
	const id = "api.content.lock.validate"
	var payload struct {
		ResourceID string `json:"resourceId"`
		APIName    string `json:"apiName"`
	}
	if err := decodeRequest(r, &payload); err != nil {
		badRequestBody(w, r, id)
		return
	}

	decision, err := h.service.ValidateLock(r.Context(), lifecycle.LockValidationRequest{
		ResourceID:   payload.ResourceID,
		ActingUserID: r.Header.Get(HeaderAuthenticatedUser),
		IsRelease:    payload.APIName == "retireLock",
		Headers:      r.Header,
	})
	if err != nil {
		respondError(w, r, id, err)
		return
	}
	if decision.ReadFailed {
		respondFailure(w, r, id, http.StatusInternalServerError,
			"ERR_CONTENT_GET_FAILED", decision.Message, decision)
		return
	}
	respondSuccess(w, r, id, http.StatusOK, decision)
}
