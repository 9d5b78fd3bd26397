package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dicklesworthstone/hal_browser/pkg/fetch"
)

const sampleBody = `{"links": [{"rel": "self", "href": "/api"}], "name": "root"}`

func TestFetchDecodesDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	doc, err := fetch.NewClient().Fetch(context.Background(), srv.URL+"/api")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if doc.URI != srv.URL+"/api" {
		t.Errorf("document URI = %q", doc.URI)
	}
	if got := len(doc.Links()); got != 1 {
		t.Errorf("links = %d, want 1", got)
	}
	name, ok := doc.Root.Get("name")
	if !ok {
		t.Fatal("name member missing")
	}
	if s, _ := name.AsString(); s != "root" {
		t.Errorf("name member = %q, want root", s)
	}
}

func TestFetchSendsBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := fetch.NewClient(fetch.WithCredentials("alice", "s3cret"))
	if _, err := c.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("authenticated fetch failed: %v", err)
	}

	// Without credentials the same endpoint reports the 401.
	_, err := fetch.NewClient().Fetch(context.Background(), srv.URL)
	var statusErr *fetch.HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated fetch error = %v, want 401 status error", err)
	}
}

func TestFetchHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fetch.NewClient().Fetch(context.Background(), srv.URL+"/missing")
	var statusErr *fetch.HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want HTTPStatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("status code = %d, want 404", statusErr.StatusCode)
	}
}

func TestFetchDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := fetch.NewClient().Fetch(context.Background(), srv.URL)
	var decodeErr *fetch.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want DecodeError", err)
	}
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	uri := srv.URL
	srv.Close()

	_, err := fetch.NewClient().Fetch(context.Background(), uri)
	var netErr *fetch.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
}

func TestFetchHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetch.NewClient().Fetch(ctx, srv.URL)
	var netErr *fetch.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancellation cause lost: %v", err)
	}
}

func TestFetchFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	doc, err := fetch.NewClient().Fetch(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if doc.URI != srv.URL+"/new" {
		t.Errorf("document URI = %q, want the redirect target", doc.URI)
	}
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(sampleBody), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, uri := range []string{path, "file://" + path} {
		doc, err := fetch.NewClient().Fetch(context.Background(), uri)
		if err != nil {
			t.Fatalf("fetch %q failed: %v", uri, err)
		}
		if got := len(doc.Links()); got != 1 {
			t.Errorf("fetch %q: links = %d, want 1", uri, got)
		}
	}
}

func TestFetchLocalFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := fetch.NewClient().Fetch(context.Background(), filepath.Join(dir, "absent.json"))
	var netErr *fetch.NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("missing file error = %v, want NetworkError", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = fetch.NewClient().Fetch(context.Background(), bad)
	var decodeErr *fetch.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("bad file error = %v, want DecodeError", err)
	}
}
