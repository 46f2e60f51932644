package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/pollen-clock/internal/led"
	"github.com/sweeney/pollen-clock/internal/mqtt"
	"github.com/sweeney/pollen-clock/internal/pollen"
	"github.com/sweeney/pollen-clock/internal/status"
)

// envMap returns a getenv over the given variables only.
func envMap(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := loadConfig(nil, envMap(map[string]string{envIFTTTKey: "k"}), io.Discard)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if c.leds != 24 || c.offset != 12 {
		t.Errorf("ring: got %d/%d, want 24/12", c.leds, c.offset)
	}
	if c.grace != 10*time.Second {
		t.Errorf("grace: got %v, want 10s", c.grace)
	}
	if c.render != 100*time.Millisecond {
		t.Errorf("render: got %v, want 100ms", c.render)
	}
	if c.refresh != time.Hour {
		t.Errorf("refresh: got %v, want 1h", c.refresh)
	}
	if c.maxFailures != 5 {
		t.Errorf("max failures: got %d, want 5", c.maxFailures)
	}
	if c.pinPIR != 17 {
		t.Errorf("pir pin: got %d, want 17", c.pinPIR)
	}
	if c.spiPort != led.DefaultPort || c.spiHz != led.DefaultHz {
		t.Errorf("spi: got %s@%d", c.spiPort, c.spiHz)
	}
	if c.pollenURL != pollen.DefaultURL || c.region != pollen.DefaultRegion {
		t.Errorf("pollen: got %s#%s", c.pollenURL, c.region)
	}
	if c.broker != "" {
		t.Errorf("broker: got %q, want disabled", c.broker)
	}
	if c.httpAddr != ":8080" {
		t.Errorf("http: got %q, want :8080", c.httpAddr)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	c, err := loadConfig(nil, envMap(map[string]string{
		envLEDs:        "60",
		envOffset:      "30",
		envGrace:       "45s",
		envMaxFailures: "3",
		envBroker:      "tcp://192.168.1.200:1883",
		envIFTTTKey:    "secret",
	}), io.Discard)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if c.leds != 60 || c.offset != 30 {
		t.Errorf("ring: got %d/%d, want 60/30", c.leds, c.offset)
	}
	if c.grace != 45*time.Second {
		t.Errorf("grace: got %v, want 45s", c.grace)
	}
	if c.maxFailures != 3 {
		t.Errorf("max failures: got %d, want 3", c.maxFailures)
	}
	if c.broker != "tcp://192.168.1.200:1883" {
		t.Errorf("broker: got %q", c.broker)
	}
	if c.iftttKey != "secret" {
		t.Errorf("ifttt key: got %q", c.iftttKey)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	c, err := loadConfig(
		[]string{"-grace", "2s", "-http", ""},
		envMap(map[string]string{envGrace: "45s", envIFTTTKey: "k"}),
		io.Discard,
	)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if c.grace != 2*time.Second {
		t.Errorf("grace: got %v, want 2s", c.grace)
	}
	if c.httpAddr != "" {
		t.Errorf("http: got %q, want disabled", c.httpAddr)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"missing key", nil, map[string]string{}, "ifttt key is required"},
		{"malformed int", nil, map[string]string{envIFTTTKey: "k", envLEDs: "lots"}, "CLOCK_LEDS"},
		{"malformed duration", nil, map[string]string{envIFTTTKey: "k", envGrace: "10"}, "CLOCK_GRACE"},
		{"offset outside ring", []string{"-offset", "24"}, map[string]string{envIFTTTKey: "k"}, "offset 24"},
		{"zero leds", []string{"-leds", "0"}, map[string]string{envIFTTTKey: "k"}, "leds must be positive"},
		{"zero render", []string{"-render", "0s"}, map[string]string{envIFTTTKey: "k"}, "render must be positive"},
		{"no retries", []string{"-max-failures", "0"}, map[string]string{envIFTTTKey: "k"}, "max-failures"},
		{"negative backoff", []string{"-backoff", "-1s"}, map[string]string{envIFTTTKey: "k"}, "backoff"},
		{"unknown flag", []string{"-colour", "red"}, map[string]string{envIFTTTKey: "k"}, "colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.args, envMap(tt.env), io.Discard)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigHelp(t *testing.T) {
	_, err := loadConfig([]string{"-h"}, envMap(nil), io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("got %v, want flag.ErrHelp", err)
	}
}

func TestWatchMQTT(t *testing.T) {
	pub := mqtt.NewFakePublisher()
	pub.Connected = true
	tracker := status.NewTracker(time.Now(), status.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watchMQTT(ctx, pub, tracker, time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !tracker.Snapshot().MQTTConnected && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if !tracker.Snapshot().MQTTConnected {
		t.Error("tracker never saw the connection")
	}
}
