package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/thomhuang/EarthquakesByDistance/internal/config"
	"github.com/thomhuang/EarthquakesByDistance/internal/feed"
	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
	"github.com/thomhuang/EarthquakesByDistance/internal/graceful"
	"github.com/thomhuang/EarthquakesByDistance/internal/logging"
	"github.com/thomhuang/EarthquakesByDistance/internal/prompt"
	"github.com/thomhuang/EarthquakesByDistance/internal/report"
)

func main() {
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	flags := pflag.NewFlagSet("earthquakes", pflag.ContinueOnError)
	latFlag := flags.String("lat", "", "reference latitude in degrees (prompted for when omitted)")
	lonFlag := flags.String("lon", "", "reference longitude in degrees (prompted for when omitted)")
	k := flags.IntP("top", "k", 0, "number of events to report (defaults to TOP_K)")
	asJSON := flags.Bool("json", false, "print the report as JSON")
	envFile := flags.String("env-file", "", "read configuration from this file instead of ./.env")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var cfg config.Config
	var err error
	if *envFile != "" {
		cfg, err = config.LoadFile(*envFile)
	} else {
		config.LoadEnv()
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if flags.Changed("top") {
		if *k < 0 {
			return fmt.Errorf("--top must not be negative, got %d", *k)
		}
		cfg.TopK = *k
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.With("run_id", uuid.NewString())

	ref, err := reference(*latFlag, *lonFlag, stdin, stdout)
	if err != nil {
		return err
	}

	pipeline, err := cfg.Pipeline()
	if err != nil {
		return err
	}

	// always get the latest feed, the CLI never caches
	cfg.Feed.CacheTTL = 0
	points, err := feed.NewClient(cfg.Feed, log).Fetch(ctx)
	if err != nil {
		log.Error("could not fetch earthquake feed", "error", err)
		return err
	}

	start := time.Now()
	result := pipeline.Run(points, ref)
	log.Info("ranked nearest events",
		"reference", ref.String(),
		"points", len(points),
		"reported", len(result),
		"took", time.Since(start),
	)

	if *asJSON {
		return report.WriteJSON(stdout, result)
	}
	return report.WriteText(stdout, result)
}

// reference uses the flags when both are given and asks on the terminal otherwise.
func reference(lat, lon string, stdin io.Reader, stdout io.Writer) (geo.GeoPoint, error) {
	if lat == "" && lon == "" {
		return prompt.New(stdin, stdout).Reference()
	}
	if lat == "" || lon == "" {
		return geo.GeoPoint{}, errors.New("--lat and --lon must be given together")
	}

	latDeg, err := geo.ParseDegrees(lat)
	if err != nil {
		return geo.GeoPoint{}, fmt.Errorf("latitude: %w", err)
	}
	lonDeg, err := geo.ParseDegrees(lon)
	if err != nil {
		return geo.GeoPoint{}, fmt.Errorf("longitude: %w", err)
	}
	return geo.GeoPoint{Lon: lonDeg, Lat: latDeg}, nil
}
