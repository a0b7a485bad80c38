package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := New(0)
	// The %s placeholder becomes a query hint so the handler can see the
	// requested language.
	c.BaseURL = srv.URL + "/%s/w/api.php"
	c.HTTP = srv.Client()
	return c, srv
}

func TestNewTimeout(t *testing.T) {
	if got := New(0).HTTP.Timeout; got != 10*time.Second {
		t.Errorf("default timeout = %v, want 10s", got)
	}
	if got := New(3 * time.Second).HTTP.Timeout; got != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", got)
	}
}

func TestFetchPageCanonicalizesTitle(t *testing.T) {
	c, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "parse" {
			t.Errorf("action = %q, want parse", got)
		}
		if got := r.URL.Query().Get("redirects"); got != "1" {
			t.Errorf("redirects = %q, want 1", got)
		}
		w.Write([]byte(`{"parse":{"title":"Helsinki","text":"<p>Capital of Finland</p>"}}`))
	})
	defer srv.Close()

	page, err := c.FetchPage(context.Background(), "en", "helsinki")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.Title != "Helsinki" {
		t.Errorf("title = %q, want the canonical Helsinki", page.Title)
	}
	if page.HTML == "" {
		t.Error("empty body")
	}
}

func TestFetchPageMissing(t *testing.T) {
	c, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":"missingtitle","info":"The page you specified doesn't exist."}}`))
	})
	defer srv.Close()

	_, err := c.FetchPage(context.Background(), "en", "No Such Page")
	if !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("err = %v, want ErrPageNotFound", err)
	}
}

func TestFetchPageRejectsUnsupportedLang(t *testing.T) {
	c := New(0)
	_, err := c.FetchPage(context.Background(), "xx", "Anything")
	if !errors.Is(err, ErrUnsupportedLang) {
		t.Fatalf("err = %v, want ErrUnsupportedLang", err)
	}
}

func TestFetchPageUpstreamError(t *testing.T) {
	c, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	if _, err := c.FetchPage(context.Background(), "en", "Helsinki"); err == nil {
		t.Fatal("expected an error on a non-200 status")
	}
}

func TestRandomTitle(t *testing.T) {
	c, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("list") != "random" || q.Get("rnnamespace") != "0" {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"query":{"random":[{"title":"Lake Saimaa"}]}}`))
	})
	defer srv.Close()

	title, err := c.RandomTitle(context.Background(), "fi")
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if title != "Lake Saimaa" {
		t.Errorf("title = %q", title)
	}
}

func TestFirstParagraph(t *testing.T) {
	c, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":[{"title":"Helsinki","extract":"Helsinki is the capital of Finland.\nIt lies on the Gulf of Finland."}]}}`))
	})
	defer srv.Close()

	got, err := c.FirstParagraph(context.Background(), "en", "Helsinki")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "Helsinki is the capital of Finland." {
		t.Errorf("paragraph = %q", got)
	}
}

func TestFirstParagraphPlaceholder(t *testing.T) {
	c, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":[{"title":"Obscure","missing":true}]}}`))
	})
	defer srv.Close()

	got, err := c.FirstParagraph(context.Background(), "en", "Obscure")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "No preview available." {
		t.Errorf("placeholder = %q", got)
	}
}

func TestSupported(t *testing.T) {
	for _, code := range []string{"en", "fi", "de", "sv"} {
		if !Supported(code) {
			t.Errorf("%s should be supported", code)
		}
	}
	if Supported("xx") {
		t.Error("xx should not be supported")
	}
}
