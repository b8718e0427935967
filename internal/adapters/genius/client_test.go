package genius_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ewilliams-labs/lyricslink/internal/adapters/genius"
)

func TestProbe(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{name: "Found", statuses: []int{200}, maxRetries: 3, wantStatus: 200, wantCalls: 1},
		{name: "Not found is not retried", statuses: []int{404}, maxRetries: 3, wantStatus: 404, wantCalls: 1},
		{name: "Transient failure then found", statuses: []int{503, 200}, maxRetries: 3, wantStatus: 200, wantCalls: 2},
		{name: "Persistent 5xx is returned as status", statuses: []int{502, 502}, maxRetries: 2, wantStatus: 502, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
					t.Errorf("User-Agent: got %q", ua)
				}
				w.WriteHeader(tt.statuses[int(n)-1])
			}))
			defer server.Close()

			c := genius.NewClient(server.Client(), "test-agent", tt.maxRetries, time.Millisecond, nil)
			status, err := c.Probe(context.Background(), server.URL+"/the-weeknd-blinding-lights-lyrics")
			if err != nil {
				t.Fatalf("Probe() unexpected error: %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("status: got %d, want %d", status, tt.wantStatus)
			}
			if got := atomic.LoadInt32(&calls); got != tt.wantCalls {
				t.Errorf("calls: got %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestProbeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := genius.NewClient(nil, "", 1, time.Millisecond, nil)
	status, err := c.Probe(context.Background(), url)
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if status != 0 {
		t.Errorf("status: got %d, want 0", status)
	}
}

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{
			name:   "og:title preferred",
			status: 200,
			body: `<html><head><title>Ignored | Genius</title>
				<meta property="og:title" content="The Weeknd –  Blinding Lights"></head></html>`,
			want: "The Weeknd – Blinding Lights",
		},
		{
			name:   "title fallback",
			status: 200,
			body:   "<html><head><title>\n  Blinding Lights Lyrics\n</title></head></html>",
			want:   "Blinding Lights Lyrics",
		},
		{
			name:    "no title",
			status:  200,
			body:    "<html><body>nothing</body></html>",
			wantErr: true,
		},
		{
			name:    "not found",
			status:  404,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := genius.NewClient(server.Client(), "", 1, time.Millisecond, nil)
			got, err := c.PageTitle(context.Background(), server.URL)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PageTitle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PageTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
