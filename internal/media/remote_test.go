package media

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/mannaz/internal/apperr"
)

func uploadServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var deleted []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if r.Header.Get("Authorization") != "Bearer api-key" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f, hdr, err := r.FormFile("image")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer f.Close()
			_, _ = io.ReadAll(f)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"url": "https://img.example.com/" + hdr.Filename,
				"key": "asset-" + hdr.Filename,
			})
		case http.MethodDelete:
			deleted = append(deleted, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &deleted
}

func TestRemoteStore(t *testing.T) {
	srv, _ := uploadServer(t)
	s := NewRemote(srv.URL, "api-key", 1200)

	ref, key, err := s.Store([]byte("jpeg-bytes"), "cat.jpg")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if ref != "https://img.example.com/cat.jpg" {
		t.Errorf("ref = %q", ref)
	}
	if key != "asset-cat.jpg" {
		t.Errorf("key = %q", key)
	}
}

func TestRemoteStoreRejectedUpload(t *testing.T) {
	srv, _ := uploadServer(t)
	s := NewRemote(srv.URL, "wrong-key", 0)

	_, _, err := s.Store([]byte("x"), "cat.jpg")
	if !errors.Is(err, apperr.ErrStorage) {
		t.Errorf("err = %v, want ErrStorage", err)
	}
}

func TestRemoteStoreUnreachable(t *testing.T) {
	s := NewRemote("http://127.0.0.1:1", "api-key", 0)
	_, _, err := s.Store([]byte("x"), "cat.jpg")
	if !errors.Is(err, apperr.ErrStorage) {
		t.Errorf("err = %v, want ErrStorage", err)
	}
}

func TestRemoteDelete(t *testing.T) {
	srv, deleted := uploadServer(t)
	s := NewRemote(srv.URL, "api-key", 0)

	if err := s.Delete("https://img.example.com/cat.jpg", "asset-cat.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(*deleted) != 1 || (*deleted)[0] != "/asset-cat.jpg" {
		t.Errorf("deleted = %v", *deleted)
	}
}

func TestRemoteDeleteNoops(t *testing.T) {
	s := NewRemote("http://127.0.0.1:1", "api-key", 0)
	if err := s.Delete("", ""); err != nil {
		t.Errorf("empty ref should be a no-op, got %v", err)
	}
	if err := s.Delete("https://img.example.com/x.jpg", ""); err != nil {
		t.Errorf("empty key should be a no-op, got %v", err)
	}
}

func TestRemoteDeleteGoneAssetIsFine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	s := NewRemote(srv.URL, "api-key", 0)
	if err := s.Delete("https://img.example.com/x.jpg", "asset-x"); err != nil {
		t.Errorf("404 should count as already deleted, got %v", err)
	}
}

func TestRemoteReplaceDeletesOldThenStores(t *testing.T) {
	srv, deleted := uploadServer(t)
	s := NewRemote(srv.URL, "api-key", 0)

	ref, key, err := s.Replace("https://img.example.com/old.jpg", "asset-old.jpg", []byte("new"), "new.jpg")
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if ref != "https://img.example.com/new.jpg" || key != "asset-new.jpg" {
		t.Errorf("ref = %q, key = %q", ref, key)
	}
	if len(*deleted) != 1 {
		t.Errorf("old asset not deleted: %v", *deleted)
	}
}
