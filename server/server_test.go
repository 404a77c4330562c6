package server

import (
	"encoding/json"
	"fmt"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/echoflaresat/skydome/ephem"
	"github.com/echoflaresat/skydome/geocode"
	"github.com/echoflaresat/skydome/metrics"
	"github.com/echoflaresat/skydome/render"
	"github.com/echoflaresat/skydome/scene"
	"github.com/echoflaresat/skydome/trajectory"
	"github.com/echoflaresat/skydome/tz"
)

type flatEngine struct{}

func (flatEngine) SunPosition(t time.Time, lat, lon float64) ephem.Position {
	h := float64(t.UTC().Hour())
	return ephem.Position{Azimuth: h / 24 * 2 * math.Pi, Altitude: math.Sin((h - 6) / 24 * 2 * math.Pi)}
}

func (flatEngine) MoonPosition(t time.Time, lat, lon float64) ephem.Position {
	return ephem.Position{Azimuth: 0, Altitude: 0.3}
}

func (flatEngine) MoonIllumination(t time.Time) ephem.Illumination {
	return ephem.Illumination{Fraction: 0.5, Phase: 0.75}
}

func (flatEngine) SunTimes(t time.Time, lat, lon float64) ephem.SunTimes {
	return ephem.SunTimes{AlwaysUp: true}
}

func (flatEngine) MoonTimes(t time.Time, lat, lon float64) ephem.MoonTimes {
	return ephem.MoonTimes{AlwaysUp: true}
}

func newTestServer(t *testing.T, geocodeURL string) (*Server, *metrics.Collector) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	client, err := geocode.NewClient(geocode.WithURL(geocodeURL))
	if err != nil {
		t.Fatal(err)
	}
	eng := flatEngine{}
	src := trajectory.NewSampler(eng, tz.Static("UTC"))
	phase := render.DefaultPhase()
	return New(Deps{
		Composer: scene.NewComposer(src, eng, phase, nil),
		Engine:   eng,
		Searcher: geocode.NewSearcher(client, nil),
		Phase:    phase,
		Defaults: scene.DefaultOptions(trajectory.Date{}),
		Metrics:  m,
		Now:      func() time.Time { return time.Date(2024, 6, 21, 9, 0, 0, 0, time.UTC) },
	}), m
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestSceneEndpoint(t *testing.T) {
	s, m := newTestServer(t, "http://127.0.0.1:1")

	rr := get(t, s, "/api/scene?city=51.5,-0.12,London&city=95,0,Bad&date=2024-03-20&step=30&dark=true")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body)
	}
	var body struct {
		Options struct {
			Date        string  `json:"date"`
			Dark        bool    `json:"dark"`
			StepMinutes float64 `json:"stepMinutes"`
		} `json:"options"`
		Layers []struct {
			Slot int `json:"slot"`
			City struct {
				Label string `json:"label"`
			} `json:"city"`
			Color string `json:"color"`
			Sun   struct {
				Segments [][][3]float64 `json:"segments"`
				Points   struct {
					IndexMap []int `json:"indexMap"`
				} `json:"points"`
			} `json:"sun"`
		} `json:"layers"`
		Skipped []struct {
			Slot int `json:"slot"`
		} `json:"skipped"`
		Badge struct {
			Name string `json:"name"`
		} `json:"badge"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Options.Date != "2024-03-20" || !body.Options.Dark || body.Options.StepMinutes != 30 {
		t.Errorf("options %+v", body.Options)
	}
	if len(body.Layers) != 1 || body.Layers[0].City.Label != "London" || body.Layers[0].Color != "#ff7a45" {
		t.Fatalf("layers %+v", body.Layers)
	}
	if len(body.Skipped) != 1 || body.Skipped[0].Slot != 1 {
		t.Errorf("skipped %+v", body.Skipped)
	}
	if len(body.Layers[0].Sun.Segments) == 0 || len(body.Layers[0].Sun.Points.IndexMap) == 0 {
		t.Error("no sun geometry")
	}
	if body.Badge.Name != "Last Quarter" {
		t.Errorf("badge %q", body.Badge.Name)
	}
	if got := testutil.ToFloat64(m.SkippedCities); got != 1 {
		t.Errorf("skipped metric %v", got)
	}
}

func TestSceneBadRequests(t *testing.T) {
	s, _ := newTestServer(t, "http://127.0.0.1:1")
	for _, target := range []string{
		"/api/scene?date=2024-13-01",
		"/api/scene?step=ten",
		"/api/scene?below=maybe",
		"/api/scene?city=north",
		"/api/scene?city=1,1&city=2,2&city=3,3&city=4,4",
	} {
		if rr := get(t, s, target); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d", target, rr.Code)
		}
	}
}

func TestMoonEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "http://127.0.0.1:1")

	rr := get(t, s, "/api/moon.png?date=2024-03-20&size=64")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body)
	}
	if rr.Header().Get("Content-Type") != "image/png" || rr.Header().Get("X-Moon-Phase") != "Last Quarter" {
		t.Errorf("headers %v", rr.Header())
	}
	img, err := png.Decode(rr.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Errorf("size %v", img.Bounds())
	}

	for _, target := range []string{"/api/moon.png?size=2", "/api/moon.png?size=big", "/api/moon.png?dark=2"} {
		if rr := get(t, s, target); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d", target, rr.Code)
		}
	}
}

func TestSearchEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == "down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"results":[{"name":"Oslo","country":"Norway","latitude":59.91,"longitude":10.75}]}`)
	}))
	defer upstream.Close()
	s, _ := newTestServer(t, upstream.URL)

	tests := []struct {
		q     string
		count int
	}{
		{"Oslo", 1},
		{"down", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			rr := get(t, s, "/api/search?q="+tt.q)
			if rr.Code != http.StatusOK {
				t.Fatalf("status %d", rr.Code)
			}
			var body searchResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if !body.Applied || len(body.Results) != tt.count || body.Results == nil {
				t.Errorf("body %+v", body)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "http://127.0.0.1:1")
	get(t, s, "/api/moon.png")
	rr := get(t, s, "/metrics")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `skydome_http_requests_total{code="200",method="get",route="moon"} 1`) {
		t.Errorf("metrics body:\n%s", rr.Body)
	}
}
