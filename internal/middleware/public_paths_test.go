package middleware

import "testing"

func TestPublicPathsMatch(t *testing.T) {
	public := NewPublicPaths([]string{"/", "/favicon.ico", "/login**", "/static/**"})

	allowed := []string{
		"/",
		"/favicon.ico",
		"/login",
		"/login/oauth2/code/keycloak",
		"/static/css/style.css",
	}
	for _, path := range allowed {
		if !public.Match(path) {
			t.Fatalf("expected %s to be public", path)
		}
	}

	denied := []string{
		"/dashboard",
		"/dashboard/partials/todos",
		"/static",
	}
	for _, path := range denied {
		if public.Match(path) {
			t.Fatalf("expected %s to be protected", path)
		}
	}
}

func TestPublicPathsSingleStarStaysInSegment(t *testing.T) {
	public := NewPublicPaths([]string{"/files/*"})
	if !public.Match("/files/report.pdf") {
		t.Fatal("expected single segment match")
	}
	if public.Match("/files/a/b") {
		t.Fatal("single star must not cross segments")
	}
}
