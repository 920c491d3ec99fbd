package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFetchLocalRootsPriority(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	writeFile(t, filepath.Join(low, "models", "car.obj"), "low")
	writeFile(t, filepath.Join(high, "models", "car.obj"), "high")

	m := NewManager(low)
	m.AddRoot(high)

	data, err := m.Fetch(context.Background(), "models/car.obj")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "high" {
		t.Errorf("got %q, want the later root's copy", data)
	}
}

func TestFetchAbsoluteAndFileScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "car.glb")
	writeFile(t, path, "glb")

	m := NewManager()
	for _, ref := range []string{path, "file://" + path} {
		data, err := m.Fetch(context.Background(), ref)
		if err != nil {
			t.Fatalf("Fetch(%s): %v", ref, err)
		}
		if string(data) != "glb" {
			t.Errorf("Fetch(%s) = %q", ref, data)
		}
	}
}

func TestFetchMissing(t *testing.T) {
	m := NewManager(t.TempDir())
	_, err := m.Fetch(context.Background(), "nope.obj")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFetchRemote(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch r.URL.Path {
		case "/car.obj":
			w.Write([]byte("v 0 0 0"))
		case "/broken.obj":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := NewManager()
	m.SetHTTPClient(srv.Client())

	data, err := m.Fetch(context.Background(), srv.URL+"/car.obj")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "v 0 0 0" {
		t.Errorf("body = %q", data)
	}

	// Second fetch is served from cache.
	if _, err := m.Fetch(context.Background(), srv.URL+"/car.obj"); err != nil {
		t.Fatalf("cached Fetch: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
	if hits, misses := m.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 1/1", hits, misses)
	}

	if _, err := m.Fetch(context.Background(), srv.URL+"/missing.obj"); !errors.Is(err, ErrNotFound) {
		t.Errorf("404 error = %v, want ErrNotFound", err)
	}
	if _, err := m.Fetch(context.Background(), srv.URL+"/broken.obj"); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestFetchRemoteCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager()
	m.SetHTTPClient(srv.Client())
	if _, err := m.Fetch(ctx, srv.URL+"/car.obj"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestIsRemote(t *testing.T) {
	tests := map[string]bool{
		"https://cdn.example.com/car.glb": true,
		"http://localhost/car.obj":        true,
		"file:///tmp/car.obj":             false,
		"assets/car.obj":                  false,
		"/abs/car.obj":                    false,
	}
	for ref, want := range tests {
		if got := IsRemote(ref); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", ref, got, want)
		}
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.Set("a", []byte("1"))
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit")
	}
	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after Clear")
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 1 {
		t.Errorf("stats after clear = %d/%d, want 0/1", hits, misses)
	}
}
