package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newServer(t *testing.T, hits *atomic.Int32, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSearch(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "Paris" {
			t.Errorf("name = %q", got)
		}
		if got := r.URL.Query().Get("count"); got != "8" {
			t.Errorf("count = %q", got)
		}
		fmt.Fprint(w, `{"results":[
			{"name":"Paris","admin1":"Île-de-France","country":"France","latitude":48.85341,"longitude":2.3488,"timezone":"Europe/Paris"},
			{"name":"Paris","admin1":"Texas","country":"United States","latitude":33.66094,"longitude":-95.55551}
		]}`)
	})

	c, err := NewClient(WithURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	places, err := c.Search(context.Background(), "  Paris ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("got %d places", len(places))
	}
	if got := places[0].Label(); got != "Paris, Île-de-France, France" {
		t.Errorf("Label = %q", got)
	}
	if places[1].Longitude != -95.55551 {
		t.Errorf("longitude %v", places[1].Longitude)
	}

	// Cached, case and spacing insensitive.
	if _, err := c.Search(context.Background(), "paris"); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestClientBlankQuery(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {})
	c, err := NewClient(WithURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range []string{"", "   ", "\t"} {
		places, err := c.Search(context.Background(), q)
		if err != nil || len(places) != 0 {
			t.Errorf("Search(%q) = %v, %v", q, places, err)
		}
	}
	if hits.Load() != 0 {
		t.Error("blank query reached the network")
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"decode", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"results":`) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := newServer(t, &hits, tt.handler)
			c, err := NewClient(WithURL(srv.URL), WithCacheSize(0))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := c.Search(context.Background(), "Oslo"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestClientNoResultsAndCap(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == "nowhere" {
			fmt.Fprint(w, `{"generationtime_ms":0.3}`)
			return
		}
		fmt.Fprint(w, `{"results":[`)
		for i := 0; i < 12; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"name":"Springfield %d","latitude":%d,"longitude":0}`, i, i)
		}
		fmt.Fprint(w, `]}`)
	})
	c, err := NewClient(WithURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	places, err := c.Search(context.Background(), "nowhere")
	if err != nil || places == nil || len(places) != 0 {
		t.Errorf("no results: %v, %v", places, err)
	}
	places, err = c.Search(context.Background(), "Springfield")
	if err != nil || len(places) != MaxResults {
		t.Errorf("got %d places, %v", len(places), err)
	}
}

// gatedFinder blocks each query until its gate is released.
type gatedFinder struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	err   map[string]error
}

func (g *gatedFinder) gate(q string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gates == nil {
		g.gates = map[string]chan struct{}{}
	}
	ch, ok := g.gates[q]
	if !ok {
		ch = make(chan struct{})
		g.gates[q] = ch
	}
	return ch
}

func (g *gatedFinder) Search(ctx context.Context, q string) ([]Place, error) {
	<-g.gate(q)
	if err := g.err[q]; err != nil {
		return nil, err
	}
	return []Place{{Name: q}}, nil
}

func TestSearcherDiscardsStale(t *testing.T) {
	f := &gatedFinder{}
	core, logs := observer.New(zap.DebugLevel)
	s := NewSearcher(f, zap.New(core))

	type result struct {
		places  []Place
		applied bool
	}
	slow := make(chan result)
	go func() {
		p, ok := s.Search(context.Background(), "Par")
		slow <- result{p, ok}
	}()
	// Wait until the first query holds its generation.
	for s.gen.Load() != 1 {
		runtime.Gosched()
	}

	close(f.gate("Paris"))
	places, applied := s.Search(context.Background(), "Paris")
	if !applied || places[0].Name != "Paris" {
		t.Fatalf("latest query not applied: %v %v", places, applied)
	}

	close(f.gate("Par"))
	r := <-slow
	if r.applied {
		t.Error("stale query was applied")
	}
	q, current := s.Current()
	if q != "Paris" || len(current) != 1 || current[0].Name != "Paris" {
		t.Errorf("Current = %q %v", q, current)
	}
	if logs.FilterMessage("stale search discarded").Len() != 1 {
		t.Error("stale discard not logged")
	}
}

func TestSearcherFailureIsEmpty(t *testing.T) {
	f := &gatedFinder{err: map[string]error{"Lyon": errors.New("network down")}}
	close(f.gate("Lyon"))
	core, logs := observer.New(zap.WarnLevel)
	s := NewSearcher(f, zap.New(core))

	places, applied := s.Search(context.Background(), "Lyon")
	if !applied || places == nil || len(places) != 0 {
		t.Errorf("failure gave %v applied=%v", places, applied)
	}
	if logs.FilterMessage("geocode search failed").Len() != 1 {
		t.Error("failure not logged")
	}
}
