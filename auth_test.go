package minimod

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestEmailRequestSendsFormContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	c.EmailRequest(context.Background(), "player@example.com", func(ok bool) { wg.Done() })
	wg.Wait()

	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q; want application/x-www-form-urlencoded", gotContentType)
	}
}

func TestEmailExchangeSendsFormContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"access_token":"TOK"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	c.EmailExchange(context.Background(), "123456", func(token string, ok bool) { wg.Done() })
	wg.Wait()

	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q; want application/x-www-form-urlencoded", gotContentType)
	}
}

func TestMeWithoutAuthenticationSetsLastError(t *testing.T) {
	c := newTestClient(t, "http://unused.invalid")

	c.Me(context.Background(), func(u *User, ok bool) {
		t.Fatalf("callback should not fire without authentication")
	})

	err := c.LastError()
	if err == nil || err.Kind != KindPrecondition {
		t.Fatalf("LastError() = %+v; want a KindPrecondition error", err)
	}
	if !strings.Contains(err.Error(), "authentication") {
		t.Errorf("LastError().Error() = %q; want mention of authentication", err.Error())
	}
}

func TestGetModsWithZeroGameIDSetsLastError(t *testing.T) {
	c := newTestClient(t, "http://unused.invalid")

	c.GetMods(context.Background(), 0, "", func(m []Mod, p Pagination) {})

	err := c.LastError()
	if err == nil || err.Kind != KindPrecondition {
		t.Fatalf("LastError() = %+v; want a KindPrecondition error", err)
	}
}
