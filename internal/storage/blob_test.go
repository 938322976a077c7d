package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testSAS = "?sv=2023-01-03&sr=c&sp=rwl&sig=abc%3D"

func TestURLForConcatenatesWithoutSeparators(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{"with slash", "https://acct.blob.core.windows.net/output/previews/", "https://acct.blob.core.windows.net/output/previews/scene.png" + testSAS},
		{"without slash", "https://acct.blob.core.windows.net/output/previews", "https://acct.blob.core.windows.net/output/previews/scene.png" + testSAS},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := NewBlobUploader(BlobConfig{BaseURL: tc.base, SASToken: testSAS})
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if got := u.URLFor("scene.png"); got != tc.want {
				t.Fatalf("URLFor = %q; esperado %q", got, tc.want)
			}
		})
	}
}

func TestNewBlobUploaderRejectsInvalidBase(t *testing.T) {
	for _, base := range []string{"", "not a url", "ftp://x/y"} {
		if _, err := NewBlobUploader(BlobConfig{BaseURL: base}); err == nil {
			t.Fatalf("esperava erro para base %q", base)
		}
	}
}

func TestUploadSendsBlockBlob(t *testing.T) {
	var (
		gotMethod, gotPath, gotQuery string
		gotHeaders                   http.Header
		gotBody                      []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"0x8DC"`)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	u, err := NewBlobUploader(BlobConfig{BaseURL: srv.URL + "/output/previews", SASToken: testSAS, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	res, err := u.Upload(context.Background(), UploadInput{Key: "a.png", Body: []byte("png-bytes")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Fatalf("método %s", gotMethod)
	}
	if gotPath != "/output/previews/a.png" {
		t.Fatalf("path %s", gotPath)
	}
	if "?"+gotQuery != testSAS {
		t.Fatalf("query %q", gotQuery)
	}
	if gotHeaders.Get("x-ms-blob-type") != "BlockBlob" {
		t.Fatalf("x-ms-blob-type = %q", gotHeaders.Get("x-ms-blob-type"))
	}
	if gotHeaders.Get("Content-Type") != "image/png" {
		t.Fatalf("Content-Type = %q", gotHeaders.Get("Content-Type"))
	}
	if string(gotBody) != "png-bytes" {
		t.Fatalf("corpo %q", gotBody)
	}
	if res.URL != srv.URL+"/output/previews/a.png"+testSAS {
		t.Fatalf("URL %q", res.URL)
	}
	if res.ETag != "0x8DC" || res.Status != http.StatusCreated {
		t.Fatalf("resultado inesperado: %+v", res)
	}
}

func TestUploadNon201ReturnsStatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, "ContainerNotFound"},
		{"ok is not created", http.StatusOK, "unexpected"},
		{"forbidden", http.StatusForbidden, "AuthenticationFailed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body+"\n")
			}))
			defer srv.Close()

			u, _ := NewBlobUploader(BlobConfig{BaseURL: srv.URL, SASToken: testSAS, HTTPClient: srv.Client()})
			_, err := u.Upload(context.Background(), UploadInput{Key: "a.png", Body: []byte{1}})

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("esperava StatusError, obtive %v", err)
			}
			if statusErr.Code != tc.status || statusErr.Body != tc.body {
				t.Fatalf("StatusError inesperado: %+v", statusErr)
			}
		})
	}
}

func TestUploadTransportErrorHidesCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	u, _ := NewBlobUploader(BlobConfig{BaseURL: base, SASToken: "?sig=segredo"})
	_, err := u.Upload(context.Background(), UploadInput{Key: "a.png", Body: []byte{1}})
	if err == nil {
		t.Fatal("esperava erro de conexão")
	}
	if strings.Contains(err.Error(), "segredo") {
		t.Fatalf("erro vazou o token: %v", err)
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Fatal("erro de transporte não deve ser StatusError")
	}
}

func TestUploadValidatesInput(t *testing.T) {
	u, _ := NewBlobUploader(BlobConfig{BaseURL: "https://acct.blob.core.windows.net/c/"})
	if _, err := u.Upload(context.Background(), UploadInput{Key: " ", Body: []byte{1}}); err == nil {
		t.Fatal("esperava erro para chave vazia")
	}
	if _, err := u.Upload(context.Background(), UploadInput{Key: "a.png"}); err == nil {
		t.Fatal("esperava erro para corpo vazio")
	}
}

func TestURLForAppendsCredentialVerbatim(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"com interrogação", "?sv=1&sig=a", "https://acct.blob.core.windows.net/c/x.png?sv=1&sig=a"},
		{"sem interrogação", "sv=1&sig=a", "https://acct.blob.core.windows.net/c/x.pngsv=1&sig=a"},
		{"vazio", "", "https://acct.blob.core.windows.net/c/x.png"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := NewBlobUploader(BlobConfig{BaseURL: "https://acct.blob.core.windows.net/c", SASToken: tc.token})
			if err != nil {
				t.Fatalf("NewBlobUploader: %v", err)
			}
			if got := u.URLFor("x.png"); got != tc.want {
				t.Fatalf("URLFor = %q; esperado %q", got, tc.want)
			}
		})
	}
}
