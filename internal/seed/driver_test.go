package seed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
)

type seedRequest struct {
	Auth    string
	Payload Payload
	// Records is the payload decoded as dress records; empty when some
	// element does not fit the record type.
	Records []dress.Record
}

// seedServer is a stand-in seed endpoint that records every request.
type seedServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []seedRequest
	received chan seedRequest
	status   int
}

func newSeedServer(t *testing.T, status int) *seedServer {
	t.Helper()
	s := &seedServer{received: make(chan seedRequest, 16), status: status}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/dresses/seed" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var p Payload
		if err := json.Unmarshal(body, &p); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		var decoded struct {
			Dresses []dress.Record `json:"dresses"`
		}
		_ = json.Unmarshal(body, &decoded)
		req := seedRequest{Auth: r.Header.Get("Authorization"), Payload: p, Records: decoded.Dresses}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()
		s.received <- req

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(`{"message":"ok","count":1}`))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *seedServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *seedServer) apiBase() string {
	return s.URL + "/api/"
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func runDriver(t *testing.T, opts Options) (*Driver, error) {
	t.Helper()
	d := NewDriver(opts, NewClient(opts.APIBase, opts.Token, WithTimeout(5*time.Second)))
	return d, d.Run(context.Background())
}

const twoItemPage = `<div class="gallery-item" data-name="A" data-price="10"><img src="a.jpg" alt=""></div>
<div class="gallery-item" data-name="B"><img src="b.jpg" alt=""></div>`

func TestRun_MissingTokenBeforeReadingInput(t *testing.T) {
	srv := newSeedServer(t, http.StatusOK)
	_, err := runDriver(t, Options{File: "/does/not/exist.json", APIBase: srv.apiBase()})

	if code := ExitCode(err); code != ExitMissingToken {
		t.Fatalf("exit code = %d, want %d (err=%v)", code, ExitMissingToken, err)
	}
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
	if srv.count() != 0 {
		t.Errorf("expected no requests, got %d", srv.count())
	}
}

func TestRun_JSONFileDeliveredUnmodified(t *testing.T) {
	srv := newSeedServer(t, http.StatusOK)
	dir := t.TempDir()

	// Fractional prices, unknown fields and missing fields are the seed
	// endpoint's business; the file is forwarded element by element.
	content := `[
  {"id": 7, "name": "One", "price": 99.5, "type": "gala", "sizes": ["xl"], "colour": "red", "image": "1.jpg", "featured": true},
  {"id": 3, "name": "Two", "type": "prom", "sizes": ["s"]},
  {"name": "Three", "price": "tba"}
]`
	path := writeFile(t, dir, "gallery.json", content)

	d, err := runDriver(t, Options{Token: "secret", File: path, APIBase: srv.apiBase()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if d.State() != StateIdle {
		t.Errorf("state = %s, want idle", d.State())
	}
	if srv.count() != 1 {
		t.Fatalf("expected 1 request, got %d", srv.count())
	}
	req := srv.requests[0]
	if req.Auth != "Bearer secret" {
		t.Errorf("Authorization = %q", req.Auth)
	}

	var want, got []any
	if err := json.Unmarshal([]byte(content), &want); err != nil {
		t.Fatal(err)
	}
	for _, raw := range req.Payload.Dresses {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			t.Fatalf("forwarded element is not JSON: %v", err)
		}
		got = append(got, v)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("payload =\n%v\nwant\n%v", got, want)
	}
}

func TestResolveInput_JSONRecordsBestEffort(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mixed.json",
		`[{"id": 1, "name": "Fits", "colour": "red"}, {"id": 2, "price": 10.5}]`)

	input, err := ResolveInput(Options{File: path})
	if err != nil {
		t.Fatalf("ResolveInput() error = %v", err)
	}
	if input.Source != SourceJSON || len(input.Dresses) != 2 {
		t.Fatalf("unexpected input %+v", input)
	}
	if len(input.Records) != 1 || input.Records[0].Name != "Fits" {
		t.Errorf("Records = %+v, want only the decodable dress", input.Records)
	}
}

func TestRun_FatalInputErrors(t *testing.T) {
	dir := t.TempDir()
	badJSON := writeFile(t, dir, "bad.json", `[{"id": 1,`)
	object := writeFile(t, dir, "object.json", `{"dresses": [{"id": 1}]}`)
	emptyArray := writeFile(t, dir, "empty.json", `[]`)
	null := writeFile(t, dir, "null.json", `null`)
	text := writeFile(t, dir, "notes.txt", "hello")
	noItems := writeFile(t, dir, "empty.html", "<html><body><p>nothing</p></body></html>")
	emptyDir := t.TempDir()
	writeFile(t, emptyDir, "readme.md", "# not html")

	tests := []struct {
		name string
		opts Options
		want int
	}{
		{"missing file", Options{File: filepath.Join(dir, "missing.json")}, ExitFileNotFound},
		{"invalid json", Options{File: badJSON}, ExitInvalidJSON},
		{"json object", Options{File: object}, ExitNoDresses},
		{"empty json array", Options{File: emptyArray}, ExitNoDresses},
		{"json null", Options{File: null}, ExitNoDresses},
		{"unsupported extension", Options{File: text}, ExitUnsupportedFile},
		{"no html files in dir", Options{Dir: emptyDir}, ExitNoHTMLFiles},
		{"missing dir", Options{Dir: filepath.Join(dir, "nope")}, ExitFileNotFound},
		{"empty files list", Options{Files: []string{" ", ""}, Dir: emptyDir}, ExitNoHTMLFiles},
		{"no dresses", Options{File: noItems}, ExitNoDresses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSeedServer(t, http.StatusOK)
			opts := tt.opts
			opts.Token = "secret"
			opts.APIBase = srv.apiBase()

			_, err := runDriver(t, opts)
			if code := ExitCode(err); code != tt.want {
				t.Fatalf("exit code = %d, want %d (err=%v)", code, tt.want, err)
			}
			if srv.count() != 0 {
				t.Errorf("expected no network request, got %d", srv.count())
			}
		})
	}
}

func TestRun_DirectoryScan(t *testing.T) {
	srv := newSeedServer(t, http.StatusCreated)
	dir := t.TempDir()
	writeFile(t, dir, "b-gallery.htm", `<div class="gallery-item" data-name="Second"></div>`)
	writeFile(t, dir, "a-gallery.html", twoItemPage)
	writeFile(t, dir, "styles.css", `.gallery-item{}`)
	writeFile(t, dir, "page.HTML", `<div class="gallery-item" data-name="Upper"></div>`)
	if err := os.Mkdir(filepath.Join(dir, "nested.html"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := runDriver(t, Options{Token: "secret", Dir: dir, APIBase: srv.apiBase()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := srv.requests[0].Records
	var names []string
	for _, r := range got {
		names = append(names, r.Name)
	}
	if want := []string{"A", "B", "Second"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if got[2].ID != 1 {
		t.Errorf("ids restart per extraction pass, got %d", got[2].ID)
	}
}

func TestRun_FilesListSkipsUnreadable(t *testing.T) {
	srv := newSeedServer(t, http.StatusOK)
	dir := t.TempDir()
	first := writeFile(t, dir, "one.html", `<div class="gallery-item" data-name="One"></div>`)
	second := writeFile(t, dir, "two.html", twoItemPage)

	_, err := runDriver(t, Options{
		Token:   "secret",
		Files:   []string{second, filepath.Join(dir, "missing.html"), " " + first + " "},
		APIBase: srv.apiBase(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := srv.requests[0].Records
	if len(got) != 3 || got[0].Name != "A" || got[2].Name != "One" {
		t.Errorf("unexpected dresses in listed order: %+v", got)
	}
}

func TestRun_HTTPErrorStatusIsNotFatal(t *testing.T) {
	srv := newSeedServer(t, http.StatusUnauthorized)
	path := writeFile(t, t.TempDir(), "gallery.html", twoItemPage)

	_, err := runDriver(t, Options{Token: "wrong", File: path, APIBase: srv.apiBase()})
	if err != nil {
		t.Fatalf("expected non-fatal result for 401, got %v", err)
	}
}

func TestRun_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api"
	srv.Close()

	path := writeFile(t, t.TempDir(), "gallery.html", twoItemPage)
	_, err := runDriver(t, Options{Token: "secret", File: path, APIBase: base})
	if code := ExitCode(err); code != ExitDeliveryFailed {
		t.Fatalf("exit code = %d, want %d (err=%v)", code, ExitDeliveryFailed, err)
	}
}

func TestRun_WatchJSONInputReturns(t *testing.T) {
	srv := newSeedServer(t, http.StatusOK)
	raw, _ := json.Marshal(dress.DefaultCatalog())
	path := writeFile(t, t.TempDir(), "catalog.json", string(raw))

	d, err := runDriver(t, Options{Token: "secret", File: path, APIBase: srv.apiBase(), Watch: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if d.State() != StateIdle {
		t.Errorf("state = %s, want idle", d.State())
	}
}

func TestRun_WatchReseedsChangedFile(t *testing.T) {
	srv := newSeedServer(t, http.StatusOK)
	dir := t.TempDir()
	first := writeFile(t, dir, "first.html", twoItemPage)
	second := writeFile(t, dir, "second.html", `<div class="gallery-item" data-name="Solo"></div>`)

	opts := Options{
		Token:    "secret",
		Files:    []string{first, second},
		APIBase:  srv.apiBase(),
		Watch:    true,
		Debounce: 20 * time.Millisecond,
	}
	d := NewDriver(opts, NewClient(opts.APIBase, opts.Token))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	select {
	case req := <-srv.received:
		if len(req.Records) != 3 {
			t.Fatalf("initial seed has %d dresses, want 3", len(req.Records))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial seed")
	}

	waitForState(t, d, StateWatching)

	writeFile(t, dir, "second.html", `<div class="gallery-item" data-name="Solo v2"></div>
<div class="gallery-item" data-name="New"></div>`)

	select {
	case req := <-srv.received:
		got := req.Records
		if len(got) != 2 || got[0].Name != "Solo v2" || got[1].ID != 2 {
			t.Errorf("re-seed should carry only the changed file's dresses, got %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for re-seed")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not stop after cancel")
	}
}

func waitForState(t *testing.T, d *Driver, want State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for d.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("state = %s, want %s", d.State(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
