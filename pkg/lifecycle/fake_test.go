package lifecycle_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/tendant/content-gateway/pkg/lifecycle"
)

func intp(i int) *int { return &i }

// okResponse builds a success envelope with the given result fields.
func okResponse(result map[string]interface{}) *lifecycle.ProviderResponse {
	raw := make(map[string]json.RawMessage, len(result))
	for k, v := range result {
		b, _ := json.Marshal(v)
		raw[k] = b
	}
	return &lifecycle.ProviderResponse{
		ResponseCode: lifecycle.ResponseCodeOK,
		Result:       raw,
		Status:       200,
	}
}

// errResponse builds a failure envelope carrying provider error params.
func errResponse(status int, code, msg string) *lifecycle.ProviderResponse {
	responseCode := "SERVER_ERROR"
	if status < 500 {
		responseCode = "CLIENT_ERROR"
	}
	return &lifecycle.ProviderResponse{
		ResponseCode: responseCode,
		Params:       lifecycle.ResponseParams{Status: "failed", Err: code, ErrMsg: msg},
		Result:       map[string]json.RawMessage{},
		Status:       status,
	}
}

type providerCall struct {
	method string
	id     string
	body   interface{}
	query  url.Values
}

// fakeProvider records every call and answers from optional per-method
// functions, defaulting to an empty success envelope.
type fakeProvider struct {
	mu    sync.Mutex
	calls []providerCall

	searchFn       func(body interface{}) (*lifecycle.ProviderResponse, error)
	getFn          func(id string, query url.Values) (*lifecycle.ProviderResponse, error)
	createFn       func(body interface{}) (*lifecycle.ProviderResponse, error)
	retireFn       func(id string) (*lifecycle.ProviderResponse, error)
	frameworkFn    func(id string) (*lifecycle.ProviderResponse, error)
	systemUpdateFn func(body interface{}, id string) (*lifecycle.ProviderResponse, error)
	transitionFn   func(method string, body interface{}, id string) (*lifecycle.ProviderResponse, error)
}

func (f *fakeProvider) record(call providerCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

// callsTo returns the recorded calls for one method.
func (f *fakeProvider) callsTo(method string) []providerCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []providerCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeProvider) transition(method string, body interface{}, id string) (*lifecycle.ProviderResponse, error) {
	f.record(providerCall{method: method, id: id, body: body})
	if f.transitionFn != nil {
		return f.transitionFn(method, body, id)
	}
	return okResponse(map[string]interface{}{"node_id": id, "versionKey": "vk-next"}), nil
}

func (f *fakeProvider) Search(ctx context.Context, body interface{}, headers http.Header) (*lifecycle.ProviderResponse, error) {
	f.record(providerCall{method: "Search", body: body})
	if f.searchFn != nil {
		return f.searchFn(body)
	}
	return okResponse(map[string]interface{}{"count": 0, "content": []lifecycle.ContentItem{}}), nil
}

func (f *fakeProvider) GetByID(ctx context.Context, id string, query url.Values, headers http.Header) (*lifecycle.ProviderResponse, error) {
	f.record(providerCall{method: "GetByID", id: id, query: query})
	if f.getFn != nil {
		return f.getFn(id, query)
	}
	return okResponse(map[string]interface{}{"content": lifecycle.ContentItem{Identifier: id, VersionKey: "vk-1"}}), nil
}

func (f *fakeProvider) Create(ctx context.Context, body interface{}, headers http.Header) (*lifecycle.ProviderResponse, error) {
	f.record(providerCall{method: "Create", body: body})
	if f.createFn != nil {
		return f.createFn(body)
	}
	return okResponse(map[string]interface{}{"node_id": "do_123", "versionKey": "vk-1"}), nil
}

func (f *fakeProvider) Update(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return f.transition("Update", body, id)
}

func (f *fakeProvider) Review(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return f.transition("Review", body, id)
}

func (f *fakeProvider) Publish(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return f.transition("Publish", body, id)
}

func (f *fakeProvider) UnlistedPublish(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return f.transition("UnlistedPublish", body, id)
}

func (f *fakeProvider) Reject(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return f.transition("Reject", body, id)
}

func (f *fakeProvider) Retire(ctx context.Context, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	f.record(providerCall{method: "Retire", id: id})
	if f.retireFn != nil {
		return f.retireFn(id)
	}
	return okResponse(map[string]interface{}{"node_id": id}), nil
}

func (f *fakeProvider) Copy(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return f.transition("Copy", body, id)
}

func (f *fakeProvider) Flag(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return f.transition("Flag", body, id)
}

func (f *fakeProvider) AcceptFlag(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return f.transition("AcceptFlag", body, id)
}

func (f *fakeProvider) RejectFlag(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return f.transition("RejectFlag", body, id)
}

func (f *fakeProvider) GetFrameworkByID(ctx context.Context, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	f.record(providerCall{method: "GetFrameworkByID", id: id})
	if f.frameworkFn != nil {
		return f.frameworkFn(id)
	}
	return okResponse(map[string]interface{}{"framework": lifecycle.Framework{Identifier: id}}), nil
}

func (f *fakeProvider) SystemUpdate(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	f.record(providerCall{method: "SystemUpdate", id: id, body: body})
	if f.systemUpdateFn != nil {
		return f.systemUpdateFn(body, id)
	}
	return okResponse(map[string]interface{}{"node_id": id, "versionKey": "vk-next"}), nil
}

// recordingNotifier delivers events to a channel for test assertions.
type recordingNotifier struct {
	events chan lifecycle.NotificationEvent
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(chan lifecycle.NotificationEvent, 8)}
}

func (n *recordingNotifier) Notify(ctx context.Context, event lifecycle.NotificationEvent) error {
	n.events <- event
	return nil
}

// requestContent digs the content payload out of a recorded provider body.
func requestContent(body interface{}) map[string]interface{} {
	wrapper, ok := body.(map[string]interface{})
	if !ok {
		return nil
	}
	request, ok := wrapper["request"].(map[string]interface{})
	if !ok {
		return nil
	}
	content, _ := request["content"].(map[string]interface{})
	return content
}
