package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/echoflaresat/skydome/config"
	"github.com/echoflaresat/skydome/ephem"
	"github.com/echoflaresat/skydome/geocode"
	"github.com/echoflaresat/skydome/logger"
	"github.com/echoflaresat/skydome/metrics"
	"github.com/echoflaresat/skydome/render"
	"github.com/echoflaresat/skydome/scene"
	"github.com/echoflaresat/skydome/server"
	"github.com/echoflaresat/skydome/trajectory"
	"github.com/echoflaresat/skydome/tz"
)

// cityList collects repeated -city flags.
type cityList []scene.City

func (c *cityList) String() string {
	labels := make([]string, 0, len(*c))
	for _, city := range *c {
		labels = append(labels, city.Label)
	}
	return strings.Join(labels, "; ")
}

func (c *cityList) Set(v string) error {
	city, err := scene.ParseCity(v)
	if err != nil {
		return err
	}
	*c = append(*c, city)
	return nil
}

type flags struct {
	configPath *string
	cities     cityList
	date       *string
	step       *int
	below      *bool
	dark       *bool
	engine     *string
	out        *string
	badge      *string
	serve      *bool
	addr       *string
	showHelp   *bool
}

func defineFlags() *flags {
	f := &flags{
		configPath: flag.String("config", "", "Path to a YAML config file"),
		date:       flag.String("date", "", "Calendar date YYYY-MM-DD; defaults to today (UTC)"),
		step:       flag.Int("step", 10, "Sampling interval in minutes"),
		below:      flag.Bool("below", false, "Keep trajectory parts below the horizon"),
		dark:       flag.Bool("dark", false, "Dark color theme"),
		engine:     flag.String("engine", "suncalc", "Ephemeris engine: suncalc or meeus"),

		out:   flag.String("out", "", "Write the scene JSON to this path"),
		badge: flag.String("badge", "", "Write the moon badge to this path (.png or .tiff)"),

		serve: flag.Bool("serve", false, "Serve the HTTP API instead of rendering once"),
		addr:  flag.String("addr", "127.0.0.1:8080", "HTTP listen address"),

		showHelp: flag.Bool("h", false, "Show this help message"),
	}
	flag.Var(&f.cities, "city", "City as lat,lon[,label]; repeat up to 3 times")
	return f
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `skydome - sun and moon paths over the local sky

Usage:
  %[1]s -city 48.85,2.35,Paris [-city ...] [options]
  %[1]s -serve [-addr host:port]

`, os.Args[0])

	printGroup("Scene Options", []string{"city", "date", "step", "below", "dark", "engine"})
	printGroup("Output", []string{"out", "badge"})
	printGroup("Server", []string{"serve", "addr"})
	printGroup("Misc", []string{"config", "h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-8s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

// applyFlags overrides cfg with the flags given on the command line only.
func applyFlags(cfg *config.Config, f *flags) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "step":
			cfg.Scene.StepMinutes = *f.step
		case "below":
			cfg.Scene.IncludeBelowHorizon = *f.below
		case "dark":
			cfg.Scene.DarkMode = *f.dark
		case "engine":
			cfg.Ephemeris.Engine = *f.engine
		case "addr":
			cfg.Server.Addr = *f.addr
		}
	})
}

func main() {
	f := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *f.showHelp {
		printHelp()
		return
	}

	cfg, err := config.Load(*f.configPath)
	if err != nil {
		log.Fatal(err)
	}
	applyFlags(cfg, f)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lg := logger.Init(cfg.Logging.Level, cfg.Logging.File)
	defer logger.Sync()

	engine, err := ephem.ByName(cfg.Ephemeris.Engine)
	if err != nil {
		log.Fatal(err)
	}
	source := trajectory.Logged(trajectory.NewSampler(engine, tz.NewFinder()), lg.Named("trajectory"))
	if cfg.Cache.Trajectories > 0 {
		if source, err = trajectory.Cached(source, cfg.Cache.Trajectories); err != nil {
			log.Fatal(err)
		}
	}

	phase := render.DefaultPhase()
	phase.Size = cfg.Badge.Size
	phase.Supersample = cfg.Badge.Supersample
	composer := scene.NewComposer(source, engine, phase, lg.Named("scene"))

	date := trajectory.DateOf(time.Now().UTC())
	if *f.date != "" {
		if date, err = trajectory.ParseDate(*f.date); err != nil {
			log.Fatal(err)
		}
	}
	opts := scene.Options{
		Date:                date,
		Step:                cfg.Scene.Step(),
		IncludeBelowHorizon: cfg.Scene.IncludeBelowHorizon,
		Radius:              cfg.Scene.Radius,
		PointSize:           cfg.Scene.PointSize,
		Dark:                cfg.Scene.DarkMode,
	}

	if *f.serve {
		if err := serve(cfg, composer, engine, phase, opts, lg); err != nil {
			log.Fatal(err)
		}
		return
	}

	if len(f.cities) == 0 {
		printHelp()
		os.Exit(2)
	}
	var slots scene.Slots
	for _, c := range f.cities {
		if _, err := slots.Add(c); err != nil {
			log.Fatalf("City %q: %v", c.Label, err)
		}
	}

	sc, err := composer.Build(context.Background(), &slots, opts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(renderSummary(sc))

	if *f.out != "" {
		if err := writeJSON(*f.out, sc); err != nil {
			log.Fatalf("Failed to write scene: %v", err)
		}
	}
	if *f.badge != "" {
		if err := writeImage(*f.badge, sc.Badge); err != nil {
			log.Fatalf("Failed to write badge: %v", err)
		}
	}
}

func serve(cfg *config.Config, composer *scene.Composer, engine ephem.Engine, phase render.Phase, opts scene.Options, lg *zap.Logger) error {
	client, err := geocode.NewClient(
		geocode.WithURL(cfg.Geocode.URL),
		geocode.WithTimeout(cfg.Geocode.Timeout),
		geocode.WithCacheSize(cfg.Geocode.CacheSize),
	)
	if err != nil {
		return err
	}
	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return err
	}

	srv := server.New(server.Deps{
		Composer: composer,
		Engine:   engine,
		Searcher: geocode.NewSearcher(client, lg.Named("geocode")),
		Phase:    phase,
		Defaults: opts,
		Metrics:  collector,
		Log:      lg.Named("http"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeImage(path string, b render.Badge) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return render.Encode(f, b.Image, render.FormatFor(path))
}
