package todo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

// fakeDoer records upstream calls and replies from a canned handler.
type fakeDoer struct {
	calls   []recordedCall
	handler func(method, path string, payload any) *http.Response
}

type recordedCall struct {
	method  string
	path    string
	payload any
}

func (f *fakeDoer) Do(_ context.Context, method, path string, payload any) (*http.Response, error) {
	f.calls = append(f.calls, recordedCall{method: method, path: path, payload: payload})
	return f.handler(method, path, payload), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestShareSyncReconciles(t *testing.T) {
	// upstream currently has alice@1, bob@2, and a revoked row that must
	// not count as current
	listBody := `{"content":[
		{"email":"alice@example.com","accessLevel":1},
		{"email":"bob@example.com","accessLevel":2},
		{"email":"gone@example.com","accessLevel":3}
	]}`

	api := &fakeDoer{handler: func(method, path string, _ any) *http.Response {
		if method == http.MethodGet {
			return jsonResponse(http.StatusOK, listBody)
		}
		return jsonResponse(http.StatusOK, `{}`)
	}}

	svc := NewShareService(api)
	ok := svc.Sync(context.Background(), 7, map[string]int{
		"bob@example.com":   3,
		"carol@example.com": 1,
	})
	if !ok {
		t.Fatal("expected sync to succeed")
	}

	var deletes, creates []string
	for _, call := range api.calls[1:] {
		switch call.method {
		case http.MethodDelete:
			deletes = append(deletes, call.path)
		case http.MethodPut:
			share, isShare := call.payload.(Share)
			if !isShare {
				t.Fatalf("unexpected PUT payload %T", call.payload)
			}
			creates = append(creates, fmt.Sprintf("%s@%d", share.Email, share.AccessLevel))
		default:
			t.Fatalf("unexpected call %s %s", call.method, call.path)
		}
	}

	// alice is absent from the target: deleted. bob changed level: deleted
	// and recreated at the new level. carol is new: created.
	if !containsSubstring(deletes, "alice%40example.com") {
		t.Fatalf("expected alice delete, got deletes %v", deletes)
	}
	if !containsSubstring(deletes, "bob%40example.com") {
		t.Fatalf("expected bob delete before recreate, got deletes %v", deletes)
	}
	if !contains(creates, "carol@example.com@1") {
		t.Fatalf("expected carol created at level 1, got creates %v", creates)
	}
	if !contains(creates, "bob@example.com@3") {
		t.Fatalf("expected bob recreated at level 3, got creates %v", creates)
	}
	if len(deletes) != 2 || len(creates) != 2 {
		t.Fatalf("unexpected operation counts: deletes %v creates %v", deletes, creates)
	}
}

func TestShareSyncNoChanges(t *testing.T) {
	api := &fakeDoer{handler: func(method, _ string, _ any) *http.Response {
		if method == http.MethodGet {
			return jsonResponse(http.StatusOK, `{"content":[{"email":"alice@example.com","accessLevel":1}]}`)
		}
		return jsonResponse(http.StatusOK, `{}`)
	}}

	svc := NewShareService(api)
	if ok := svc.Sync(context.Background(), 7, map[string]int{"alice@example.com": 1}); !ok {
		t.Fatal("expected sync to succeed")
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected only the list call, got %d calls", len(api.calls))
	}
}

func TestShareSyncPartialFailure(t *testing.T) {
	api := &fakeDoer{handler: func(method, _ string, _ any) *http.Response {
		switch method {
		case http.MethodGet:
			return jsonResponse(http.StatusOK, `{"content":[]}`)
		case http.MethodPut:
			return jsonResponse(http.StatusBadGateway, `upstream down`)
		default:
			return jsonResponse(http.StatusOK, `{}`)
		}
	}}

	svc := NewShareService(api)
	if ok := svc.Sync(context.Background(), 7, map[string]int{"alice@example.com": 1}); ok {
		t.Fatal("expected sync to report failure")
	}
}

func TestShareSyncListFailure(t *testing.T) {
	api := &fakeDoer{handler: func(string, string, any) *http.Response {
		return jsonResponse(http.StatusInternalServerError, `boom`)
	}}

	svc := NewShareService(api)
	if ok := svc.Sync(context.Background(), 7, map[string]int{"alice@example.com": 1}); ok {
		t.Fatal("expected sync to report failure")
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected no mutation attempts after list failure, got %d calls", len(api.calls))
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func containsSubstring(values []string, want string) bool {
	for _, v := range values {
		if strings.Contains(v, want) {
			return true
		}
	}
	return false
}
