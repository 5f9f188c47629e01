package todo

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestServiceListSendsModeAndDecodes(t *testing.T) {
	api := &fakeDoer{handler: func(_, path string, _ any) *http.Response {
		if !strings.HasPrefix(path, "/api/v1/todos?") {
			t.Fatalf("unexpected path %s", path)
		}
		return jsonResponse(http.StatusOK, `{"content":[],"page":{"size":20,"number":1,"totalElements":0,"totalPages":0}}`)
	}}

	svc := NewService(api)
	page, err := svc.List(context.Background(), Query{PageSize: 20}, ModeShared)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Content) != 0 {
		t.Fatalf("expected empty page got %+v", page)
	}
	if got := api.calls[0].path; !strings.Contains(got, "mode=SHARED") {
		t.Fatalf("expected mode=SHARED in path %s", got)
	}
}

func TestServiceUpstreamError(t *testing.T) {
	api := &fakeDoer{handler: func(string, string, any) *http.Response {
		return jsonResponse(http.StatusServiceUnavailable, `maintenance`)
	}}

	svc := NewService(api)
	_, err := svc.Get(context.Background(), 5)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError got %v", err)
	}
	if reqErr.Status != http.StatusServiceUnavailable || reqErr.Body != "maintenance" {
		t.Fatalf("unexpected error details: %+v", reqErr)
	}
}

func TestServiceCreate(t *testing.T) {
	api := &fakeDoer{handler: func(method, path string, payload any) *http.Response {
		if method != http.MethodPost || path != "/api/v1/todos" {
			t.Fatalf("unexpected request %s %s", method, path)
		}
		req, isCreate := payload.(CreateRequest)
		if !isCreate || req.Title != "Buy milk" {
			t.Fatalf("unexpected payload %#v", payload)
		}
		return jsonResponse(http.StatusCreated, `{"id":9,"title":"Buy milk","createdAt":"2026-08-30T10:00:00","updatedAt":"2026-08-30T10:00:00"}`)
	}}

	svc := NewService(api)
	created, err := svc.Create(context.Background(), CreateRequest{Title: "Buy milk", Categories: []string{}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 9 {
		t.Fatalf("expected id 9 got %d", created.ID)
	}
}

func TestServiceDelete(t *testing.T) {
	api := &fakeDoer{handler: func(method, path string, _ any) *http.Response {
		if method != http.MethodDelete || path != "/api/v1/todos/3" {
			t.Fatalf("unexpected request %s %s", method, path)
		}
		return jsonResponse(http.StatusNoContent, ``)
	}}

	if err := NewService(api).Delete(context.Background(), 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
