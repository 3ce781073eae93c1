package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpen_PicksSourceKind(t *testing.T) {
	if _, ok := Open("https://example.org/data.csv", 0).(*HTTPSource); !ok {
		t.Error("https location should open an HTTPSource")
	}
	if _, ok := Open("data/data.csv", 0).(FileSource); !ok {
		t.Error("path location should open a FileSource")
	}
}

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("Tipus,Valor\nEnergia,1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	data, err := FileSource{Path: path}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ParseCSV(string(data))) != 1 {
		t.Errorf("expected one record from %q", data)
	}
}

func TestFileSource_Missing(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")}.Fetch(context.Background())
	if !errors.Is(err, ErrLoadFailure) {
		t.Errorf("err = %v, want ErrLoadFailure", err)
	}
}

func TestFileSource_Binary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}, 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := FileSource{Path: path}.Fetch(context.Background())
	if !errors.Is(err, ErrLoadFailure) {
		t.Errorf("err = %v, want ErrLoadFailure", err)
	}
}

func TestHTTPSource_Fetch(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantErr     bool
	}{
		{"csv ok", http.StatusOK, "text/csv; charset=utf-8", "Tipus,Valor\nEnergia,1\n", false},
		{"plain ok", http.StatusOK, "text/plain", "Tipus,Valor\n", false},
		{"octet ok", http.StatusOK, "application/octet-stream", "Tipus,Valor\n", false},
		{"not found", http.StatusNotFound, "text/plain", "nope", true},
		{"server error", http.StatusInternalServerError, "text/plain", "boom", true},
		{"json rejected", http.StatusOK, "application/json", `{"a":1}`, true},
		{"image rejected", http.StatusOK, "image/png", "\x89PNG", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			data, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
			if tt.wantErr {
				if !errors.Is(err, ErrLoadFailure) {
					t.Errorf("err = %v, want ErrLoadFailure", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != tt.body {
				t.Errorf("body = %q, want %q", data, tt.body)
			}
		})
	}
}

func TestHTTPSource_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, 50*time.Millisecond).Fetch(context.Background())
	if !errors.Is(err, ErrLoadFailure) {
		t.Errorf("err = %v, want ErrLoadFailure", err)
	}
}
