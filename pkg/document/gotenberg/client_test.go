package gotenberg

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConvert(t *testing.T) {
	const html = "<html><body>Intake</body></html>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/forms/chromium/convert/html" {
			t.Errorf("path = %s", r.URL.Path)
		}

		file, header, err := r.FormFile("files")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "index.html" {
			t.Errorf("filename = %s", header.Filename)
		}
		uploaded, err := io.ReadAll(file)
		if err != nil {
			t.Errorf("read upload: %v", err)
		}
		if string(uploaded) != html {
			t.Errorf("uploaded = %q", uploaded)
		}

		w.Header().Set("Content-Type", "application/pdf")
		io.WriteString(w, "%PDF-1.7 fake")
	}))
	defer server.Close()

	client := New(server.URL)
	pdf, err := client.Convert(context.Background(), []byte(html))
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if string(pdf) != "%PDF-1.7 fake" {
		t.Fatalf("pdf = %q", pdf)
	}
}

func TestConvertTrimsBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "//") {
			t.Errorf("path carries a doubled slash: %s", r.URL.Path)
		}
		io.WriteString(w, "ok")
	}))
	defer server.Close()

	client := New(server.URL + "/")
	if _, err := client.Convert(context.Background(), []byte("<html></html>")); err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
}

func TestConvertServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Convert(context.Background(), []byte("<html></html>"))
	if err == nil {
		t.Fatal("Convert() should fail on a 500")
	}
	if !strings.Contains(err.Error(), "status 500") || !strings.Contains(err.Error(), "chromium crashed") {
		t.Fatalf("error lacks diagnostics: %v", err)
	}
}

func TestConvertContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(server.URL)
	if _, err := client.Convert(ctx, []byte("<html></html>")); err == nil {
		t.Fatal("Convert() should honor a cancelled context")
	}
}
