package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sweeney/pollen-clock/internal/activation"
	"github.com/sweeney/pollen-clock/internal/led"
	"github.com/sweeney/pollen-clock/internal/motion"
	"github.com/sweeney/pollen-clock/internal/pollen"
	"github.com/sweeney/pollen-clock/internal/scheduler"
)

// Environment variables read for flag defaults.
const (
	envLEDs        = "CLOCK_LEDS"
	envOffset      = "CLOCK_OFFSET"
	envGrace       = "CLOCK_GRACE"
	envRender      = "CLOCK_RENDER"
	envRefresh     = "CLOCK_REFRESH"
	envMaxFailures = "CLOCK_MAX_FAILURES"
	envBackoff     = "CLOCK_BACKOFF"
	envPinPIR      = "CLOCK_PIN_PIR"
	envSPI         = "CLOCK_SPI"
	envSPIHz       = "CLOCK_SPI_HZ"
	envPollenURL   = "CLOCK_POLLEN_URL"
	envRegion      = "CLOCK_REGION"
	envBroker      = "CLOCK_BROKER"
	envHTTP        = "CLOCK_HTTP"
	envIFTTTKey    = "IFTTT_KEY"
)

type config struct {
	leds        int
	offset      int
	grace       time.Duration
	render      time.Duration
	refresh     time.Duration
	maxFailures int
	backoff     time.Duration
	pinPIR      int
	spiPort     string
	spiHz       int64
	pollenURL   string
	region      string
	broker      string
	httpAddr    string
	iftttKey    string
}

// env resolves flag defaults from the environment and collects malformed values.
type env struct {
	getenv func(string) string
	errs   []error
}

func (e *env) stringOr(key, def string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return def
}

func (e *env) intOr(key string, def int) int {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s=%q: not an integer", key, v))
		return def
	}
	return n
}

func (e *env) durationOr(key string, def time.Duration) time.Duration {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s=%q: not a duration", key, v))
		return def
	}
	return d
}

// loadConfig parses args with defaults taken from the environment and
// validates the result.
func loadConfig(args []string, getenv func(string) string, output io.Writer) (config, error) {
	e := &env{getenv: getenv}
	var c config

	fs := flag.NewFlagSet("pollen-clock", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&c.leds, "leds", e.intOr(envLEDs, 24), "Number of LEDs on the ring")
	fs.IntVar(&c.offset, "offset", e.intOr(envOffset, 12), "LED index at 12 o'clock")
	fs.DurationVar(&c.grace, "grace", e.durationOr(envGrace, activation.DefaultGrace), "How long the display stays lit after motion stops")
	fs.DurationVar(&c.render, "render", e.durationOr(envRender, scheduler.DefaultRender), "Render interval")
	fs.DurationVar(&c.refresh, "refresh", e.durationOr(envRefresh, scheduler.DefaultRefresh), "Pollen refresh interval")
	fs.IntVar(&c.maxFailures, "max-failures", e.intOr(envMaxFailures, scheduler.DefaultMaxFailures), "Consecutive scheduler failures before exiting")
	fs.DurationVar(&c.backoff, "backoff", e.durationOr(envBackoff, scheduler.DefaultBackoff), "First delay between restarts (0 to disable)")
	fs.IntVar(&c.pinPIR, "pin-pir", e.intOr(envPinPIR, motion.DefaultPin), "BCM pin number for the PIR sensor")
	fs.StringVar(&c.spiPort, "spi", e.stringOr(envSPI, led.DefaultPort), "SPI port for the LED strip")
	spiHz := fs.Int("spi-hz", e.intOr(envSPIHz, led.DefaultHz), "SPI clock in Hz")
	fs.StringVar(&c.pollenURL, "pollen-url", e.stringOr(envPollenURL, pollen.DefaultURL), "Pollen forecast page")
	fs.StringVar(&c.region, "region", e.stringOr(envRegion, pollen.DefaultRegion), "Element id of the forecast region")
	fs.StringVar(&c.broker, "broker", e.stringOr(envBroker, ""), "MQTT broker address (empty to disable)")
	fs.StringVar(&c.httpAddr, "http", e.stringOr(envHTTP, ":8080"), "HTTP status address (empty to disable)")
	fs.StringVar(&c.iftttKey, "ifttt-key", e.stringOr(envIFTTTKey, ""), "IFTTT webhook key for error reports")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if len(e.errs) > 0 {
		return config{}, errors.Join(e.errs...)
	}
	c.spiHz = int64(*spiHz)

	if err := c.validate(); err != nil {
		return config{}, err
	}
	return c, nil
}

func (c config) validate() error {
	var errs []error
	if c.leds <= 0 {
		errs = append(errs, fmt.Errorf("leds must be positive, got %d", c.leds))
	}
	if c.offset < 0 || (c.leds > 0 && c.offset >= c.leds) {
		errs = append(errs, fmt.Errorf("offset %d outside ring of %d", c.offset, c.leds))
	}
	for _, d := range []struct {
		name string
		v    time.Duration
	}{
		{"grace", c.grace},
		{"render", c.render},
		{"refresh", c.refresh},
	} {
		if d.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", d.name, d.v))
		}
	}
	if c.maxFailures < 1 {
		errs = append(errs, fmt.Errorf("max-failures must be at least 1, got %d", c.maxFailures))
	}
	if c.backoff < 0 {
		errs = append(errs, fmt.Errorf("backoff must not be negative, got %v", c.backoff))
	}
	if c.spiHz <= 0 {
		errs = append(errs, fmt.Errorf("spi-hz must be positive, got %d", c.spiHz))
	}
	if c.iftttKey == "" {
		errs = append(errs, fmt.Errorf("ifttt key is required (-ifttt-key or %s)", envIFTTTKey))
	}
	return errors.Join(errs...)
}
