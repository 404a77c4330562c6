package geocode

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Searcher runs lookups for rapidly changing user input. Each Search is
// tagged with a generation; a response is applied only while its
// generation is still the latest issued, so a slow stale response never
// replaces the results of a newer query. Failures degrade to an empty
// result set.
type Searcher struct {
	finder Finder
	log    *zap.Logger

	gen atomic.Uint64

	mu      sync.Mutex
	query   string
	results []Place
}

func NewSearcher(finder Finder, log *zap.Logger) *Searcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Searcher{finder: finder, log: log}
}

// Search issues query and returns its results together with whether they
// were applied. applied is false when a newer Search started meanwhile.
func (s *Searcher) Search(ctx context.Context, query string) (results []Place, applied bool) {
	gen := s.gen.Add(1)

	places, err := s.finder.Search(ctx, query)
	if err != nil {
		s.log.Warn("geocode search failed", zap.String("query", query), zap.Error(err))
		places = []Place{}
	}
	if places == nil {
		places = []Place{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Load() != gen {
		s.log.Debug("stale search discarded", zap.String("query", query), zap.Uint64("generation", gen))
		return places, false
	}
	s.query = query
	s.results = places
	return places, true
}

// Current returns the query and results most recently applied.
func (s *Searcher) Current() (string, []Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query, s.results
}
