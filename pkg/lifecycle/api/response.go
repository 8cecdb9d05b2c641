package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tendant/content-gateway/pkg/lifecycle"
)

const apiVersion = "1.0"

// Params carries per-response metadata and, on failure, the machine error
// code and message.
type Params struct {
	ResMsgID string `json:"resmsgid"`
	MsgID    string `json:"msgid,omitempty"`
	Status   string `json:"status"`
	Err      string `json:"err,omitempty"`
	ErrMsg   string `json:"errmsg,omitempty"`
}

// Response is the envelope returned to callers for every operation.
type Response struct {
	ID           string      `json:"id"`
	Ver          string      `json:"ver"`
	Ts           string      `json:"ts"`
	Params       Params      `json:"params"`
	ResponseCode string      `json:"responseCode"`
	Result       interface{} `json:"result"`
}

func newResponse(r *http.Request, id string) Response {
	return Response{
		ID:  id,
		Ver: apiVersion,
		Ts:  time.Now().UTC().Format(time.RFC3339),
		Params: Params{
			ResMsgID: uuid.NewString(),
			MsgID:    requestID(r.Context()),
		},
	}
}

func respondSuccess(w http.ResponseWriter, r *http.Request, id string, status int, result interface{}) {
	resp := newResponse(r, id)
	resp.Params.Status = "successful"
	resp.ResponseCode = lifecycle.ResponseCodeOK
	if result == nil {
		result = map[string]interface{}{}
	}
	resp.Result = result
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func respondConflict(w http.ResponseWriter, r *http.Request, id string, status int, responseCode string, result interface{}) {
	// Badge conflict / not-found signals: success-shaped envelope at a
	// non-2xx status.
	resp := newResponse(r, id)
	resp.Params.Status = "successful"
	resp.ResponseCode = responseCode
	resp.Result = result
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func respondFailure(w http.ResponseWriter, r *http.Request, id string, status int, errCode, errMsg string, result interface{}) {
	resp := newResponse(r, id)
	resp.Params.Status = "failed"
	resp.Params.Err = errCode
	resp.Params.ErrMsg = errMsg
	resp.ResponseCode = responseCodeFor(status)
	if result == nil {
		result = map[string]interface{}{}
	}
	resp.Result = result
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func responseCodeFor(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "UNAUTHORIZED_ACCESS"
	case status == http.StatusNotFound:
		return "RESOURCE_NOT_FOUND"
	case status >= 400 && status < 500:
		return "CLIENT_ERROR"
	default:
		return "SERVER_ERROR"
	}
}

// respondError maps a service error onto the envelope. Validation and
// authorization failures were detected locally; upstream failures carry the
// provider's own code, message and status hint.
func respondError(w http.ResponseWriter, r *http.Request, id string, err error) {
	var verr *lifecycle.ValidationError
	if errors.As(err, &verr) {
		respondFailure(w, r, id, http.StatusBadRequest, "ERR_INVALID_REQUEST", verr.Reason, nil)
		return
	}
	var aerr *lifecycle.AuthorizationError
	if errors.As(err, &aerr) {
		respondFailure(w, r, id, http.StatusUnauthorized, "ERR_UNAUTHORIZED", aerr.Reason, nil)
		return
	}
	var uerr *lifecycle.UpstreamError
	if errors.As(err, &uerr) {
		respondFailure(w, r, id, uerr.Status, uerr.Code, uerr.Message, nil)
		return
	}
	if errors.Is(err, lifecycle.ErrNotFound) {
		respondFailure(w, r, id, http.StatusNotFound, "ERR_CONTENT_NOT_FOUND", err.Error(), nil)
		return
	}
	respondFailure(w, r, id, http.StatusInternalServerError, "ERR_INTERNAL_SERVER_ERROR", err.Error(), nil)
}
