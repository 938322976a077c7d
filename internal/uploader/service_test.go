package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ahmedbana/upload-to-azure/internal/imaging"
	"github.com/ahmedbana/upload-to-azure/internal/notify"
	"github.com/ahmedbana/upload-to-azure/internal/storage"
)

const sas = "?sv=2023-01-03&sp=rwl&sig=x%3D"

type blobServer struct {
	*httptest.Server
	mu     sync.Mutex
	puts   []string
	status func(path string) (int, string)
}

func newBlobServer(t *testing.T, status func(path string) (int, string)) *blobServer {
	t.Helper()
	b := &blobServer{status: status}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.puts = append(b.puts, r.URL.Path)
		b.mu.Unlock()
		code, body := b.status(r.URL.Path)
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(b.Close)
	return b
}

type hookServer struct {
	*httptest.Server
	mu     sync.Mutex
	events []notify.SceneCompleted
}

func newHookServer(t *testing.T, status int) *hookServer {
	t.Helper()
	h := &hookServer{}
	h.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev notify.SceneCompleted
		_ = json.NewDecoder(r.Body).Decode(&ev)
		h.mu.Lock()
		h.events = append(h.events, ev)
		h.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(h.Close)
	return h
}

func created(string) (int, string) { return http.StatusCreated, "" }

func fixedNamer() Namer {
	ids := []string{"aaaaaaaa", "bbbbbbbb", "cccccccc", "dddddddd"}
	var mu sync.Mutex
	next := 0
	return Namer{
		Now: func() time.Time { return time.Unix(1700000000, 0) },
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			id := ids[next%len(ids)]
			next++
			return id
		},
	}
}

func newTestService(stopOnError bool) *Service {
	return NewService(Options{
		StopOnError: stopOnError,
		Namer:       fixedNamer(),
		Logger:      zerolog.Nop(),
	})
}

func solid(v float32) imaging.Image {
	img := imaging.New(2, 2, 3)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestRunSuccessWithoutWebhookReturnsUploadURL(t *testing.T) {
	blob := newBlobServer(t, created)
	svc := newTestService(false)

	report := svc.Run(context.Background(), Request{
		Input:      imaging.NewSingle(solid(1)),
		BaseURL:    blob.URL + "/output/previews",
		Credential: sas,
		FileName:   "scene.webp",
	})

	want := blob.URL + "/output/previews/scene.png" + sas
	if got := report.Single(); got != want {
		t.Fatalf("resultado %q; esperado %q", got, want)
	}
	if !report.OK() {
		t.Fatalf("relatório deveria estar OK: %+v", report)
	}
}

func TestRunBatchWithWebhook(t *testing.T) {
	blob := newBlobServer(t, created)
	hook := newHookServer(t, http.StatusOK)
	svc := newTestService(false)

	report := svc.Run(context.Background(), Request{
		Input:        imaging.NewBatch(imaging.Batch{solid(0), solid(1)}),
		BaseURL:      blob.URL + "/c/",
		Credential:   sas,
		GenerationID: "gen-9",
		WebhookURL:   hook.URL,
		SceneOrder:   "7",
		Type:         "portrait",
	})

	wantURLs := []string{
		blob.URL + "/c/1700000000_gen-9_aaaaaaaa_0.png" + sas,
		blob.URL + "/c/1700000000_gen-9_bbbbbbbb_1.png" + sas,
	}
	if got := report.String(); got != strings.Join(wantURLs, ",") {
		t.Fatalf("saída %q", got)
	}

	if len(hook.events) != 2 {
		t.Fatalf("esperava 2 webhooks, obtive %d", len(hook.events))
	}
	first, second := hook.events[0], hook.events[1]
	if first.GenerationID != "gen-9" || first.SceneResult.SceneOrder != "7" || first.SceneResult.Type != "portrait" {
		t.Fatalf("evento inesperado: %+v", first)
	}
	if second.SceneResult.SceneOrder != "1" {
		t.Fatalf("scene order não completada com índice: %+v", second)
	}
	if first.SceneResult.ProcessedImageURL != wantURLs[0] {
		t.Fatalf("processedImageUrl = %q", first.SceneResult.ProcessedImageURL)
	}
}

func TestRunWebhookFailureIsPartialSuccess(t *testing.T) {
	blob := newBlobServer(t, created)
	hook := newHookServer(t, http.StatusInternalServerError)
	svc := newTestService(false)

	report := svc.Run(context.Background(), Request{
		Input:      imaging.NewSingle(solid(0.5)),
		BaseURL:    blob.URL + "/c/",
		Credential: sas,
		WebhookURL: hook.URL,
	})

	res := report.Results[0]
	if res.Status != StatusWebhookFailed {
		t.Fatalf("status %s", res.Status)
	}
	out := report.Single()
	if !strings.HasPrefix(out, "✓") || !strings.Contains(out, "500") || !strings.Contains(out, res.URL) {
		t.Fatalf("texto de sucesso parcial inesperado: %q", out)
	}
	if hook.events[0].GenerationID != "default" {
		t.Fatalf("generationId = %q", hook.events[0].GenerationID)
	}
	if !report.OK() || report.Counts().Partial != 1 {
		t.Fatalf("falha de webhook não deveria reprovar o lote: %+v", report.Counts())
	}
}

func TestRunWebhookNetworkError(t *testing.T) {
	blob := newBlobServer(t, created)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	hookURL := hook.URL
	hook.Close()

	report := newTestService(false).Run(context.Background(), Request{
		Input:      imaging.NewSingle(solid(0.5)),
		BaseURL:    blob.URL + "/c/",
		WebhookURL: hookURL,
	})

	if report.Results[0].Status != StatusWebhookFailed {
		t.Fatalf("status %s", report.Results[0].Status)
	}
	if !strings.HasPrefix(report.Single(), "✓ Uploaded") {
		t.Fatalf("texto %q", report.Single())
	}
}

func TestRunMalformedWebhookStillUploads(t *testing.T) {
	for _, hookURL := range []string{"hooks.example.com/done", "ftp://hooks.example.com"} {
		t.Run(hookURL, func(t *testing.T) {
			blob := newBlobServer(t, created)

			report := newTestService(false).Run(context.Background(), Request{
				Input:      imaging.NewSingle(solid(1)),
				BaseURL:    blob.URL + "/c/",
				Credential: sas,
				WebhookURL: hookURL,
			})

			if len(blob.puts) != 1 {
				t.Fatalf("esperava 1 PUT, obtive %d", len(blob.puts))
			}
			res := report.Results[0]
			if res.Status != StatusWebhookFailed {
				t.Fatalf("status %s", res.Status)
			}
			want := "✓ Uploaded " + res.URL + " (webhook failed: "
			if !strings.HasPrefix(report.Single(), want) || !strings.Contains(report.Single(), "webhook_url") {
				t.Fatalf("texto %q", report.Single())
			}
			if !report.OK() {
				t.Fatal("webhook inválido não deveria reprovar o upload")
			}
		})
	}
}

func TestRunUploadFailureSkipsWebhook(t *testing.T) {
	blob := newBlobServer(t, func(string) (int, string) {
		return http.StatusNotFound, "The specified container does not exist."
	})
	hook := newHookServer(t, http.StatusOK)

	report := newTestService(false).Run(context.Background(), Request{
		Input:      imaging.NewSingle(solid(1)),
		BaseURL:    blob.URL + "/missing/",
		Credential: sas,
		WebhookURL: hook.URL,
	})

	out := report.Single()
	if !strings.Contains(out, "404") || !strings.Contains(out, "The specified container does not exist.") {
		t.Fatalf("texto de falha inesperado: %q", out)
	}
	if len(hook.events) != 0 {
		t.Fatalf("webhook não deveria ser chamado, obtive %d chamadas", len(hook.events))
	}
	if report.OK() {
		t.Fatal("relatório deveria falhar")
	}
}

func TestRunIsolatesFailuresPerImage(t *testing.T) {
	blob := newBlobServer(t, created)
	bad := imaging.New(1, 1, 2)

	report := newTestService(false).Run(context.Background(), Request{
		Input:   imaging.NewBatch(imaging.Batch{solid(1), bad, solid(0)}),
		BaseURL: blob.URL + "/c/",
	})

	if len(report.Results) != 3 {
		t.Fatalf("esperava 3 resultados, obtive %d", len(report.Results))
	}
	statuses := []Status{report.Results[0].Status, report.Results[1].Status, report.Results[2].Status}
	if statuses[0] != StatusUploaded || statuses[1] != StatusError || statuses[2] != StatusUploaded {
		t.Fatalf("status inesperados: %v", statuses)
	}
	if !strings.HasPrefix(report.Results[1].String(), "❌ Upload error:") {
		t.Fatalf("texto %q", report.Results[1].String())
	}
	if len(blob.puts) != 2 {
		t.Fatalf("esperava 2 PUTs, obtive %d", len(blob.puts))
	}
}

func TestRunStopOnErrorAbortsRemaining(t *testing.T) {
	blob := newBlobServer(t, created)
	bad := imaging.New(1, 1, 2)

	report := newTestService(true).Run(context.Background(), Request{
		Input:   imaging.NewBatch(imaging.Batch{solid(1), bad, solid(0), solid(0)}),
		BaseURL: blob.URL + "/c/",
	})

	if len(report.Results) != 4 {
		t.Fatalf("esperava 4 resultados, obtive %d", len(report.Results))
	}
	for i, res := range report.Results[2:] {
		if res.Status != StatusError || !strings.Contains(res.Detail, "aborted") {
			t.Fatalf("imagem %d deveria estar abortada: %+v", i+2, res)
		}
		if res.Index != i+2 {
			t.Fatalf("índice %d, esperado %d", res.Index, i+2)
		}
	}
	if len(blob.puts) != 1 {
		t.Fatalf("esperava 1 PUT, obtive %d", len(blob.puts))
	}
}

func TestRunCancelledContext(t *testing.T) {
	blob := newBlobServer(t, created)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newTestService(false).Run(ctx, Request{
		Input:   imaging.NewBatch(imaging.Batch{solid(1), solid(1)}),
		BaseURL: blob.URL + "/c/",
	})

	if len(report.Results) != 2 {
		t.Fatalf("esperava 2 resultados, obtive %d", len(report.Results))
	}
	for _, res := range report.Results {
		if res.Status != StatusError || !strings.Contains(res.Detail, context.Canceled.Error()) {
			t.Fatalf("resultado inesperado: %+v", res)
		}
	}
	if len(blob.puts) != 0 {
		t.Fatalf("nenhum PUT esperado, obtive %d", len(blob.puts))
	}
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		count int
	}{
		{"no images", Request{BaseURL: "https://a.blob.core.windows.net/c/"}, 0},
		{"bad base", Request{Input: imaging.NewSingle(solid(1)), BaseURL: "nope"}, 1},
		{"fixed name with batch", Request{Input: imaging.NewBatch(imaging.Batch{solid(1), solid(1)}), BaseURL: "https://a/c/", FileName: "x.png"}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report := newTestService(false).Run(context.Background(), tc.req)
			if len(report.Results) != tc.count {
				t.Fatalf("esperava %d resultados, obtive %d", tc.count, len(report.Results))
			}
			if !strings.HasPrefix(report.String(), "❌ Upload error:") {
				t.Fatalf("saída %q", report.String())
			}
			if report.OK() {
				t.Fatal("relatório deveria falhar")
			}
		})
	}
}

type stubUploader struct {
	err error
}

func (s stubUploader) Upload(ctx context.Context, in storage.UploadInput) (*storage.UploadResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &storage.UploadResult{URL: "https://blob/" + in.Key, Status: http.StatusCreated}, nil
}

type stubNotifier struct {
	err    error
	events []notify.SceneCompleted
}

func (s *stubNotifier) Notify(ctx context.Context, ev notify.SceneCompleted) error {
	s.events = append(s.events, ev)
	return s.err
}

func TestRunWithStubs(t *testing.T) {
	svc := newTestService(false)
	req := Request{Input: imaging.NewSingle(solid(1)), Type: "cover"}

	n := &stubNotifier{err: &notify.StatusError{Code: http.StatusBadGateway}}
	report := svc.run(context.Background(), req, stubUploader{}, n)
	if got := report.Results[0]; got.Status != StatusWebhookFailed || got.Code != http.StatusBadGateway {
		t.Fatalf("resultado inesperado: %+v", got)
	}
	if n.events[0].SceneResult.Type != "cover" {
		t.Fatalf("type não repassado: %+v", n.events[0])
	}

	report = svc.run(context.Background(), req, stubUploader{err: errors.New("connection reset")}, nil)
	if got := report.Single(); got != "❌ Upload error: connection reset" {
		t.Fatalf("texto %q", got)
	}
}
