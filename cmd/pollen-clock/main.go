// Command pollen-clock drives an LED ring clock whose background shows the
// local pollen forecast and which lights only while someone is nearby.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sweeney/pollen-clock/internal/clockface"
	"github.com/sweeney/pollen-clock/internal/led"
	"github.com/sweeney/pollen-clock/internal/motion"
	"github.com/sweeney/pollen-clock/internal/mqtt"
	"github.com/sweeney/pollen-clock/internal/notify"
	"github.com/sweeney/pollen-clock/internal/pollen"
	"github.com/sweeney/pollen-clock/internal/scheduler"
	"github.com/sweeney/pollen-clock/internal/signals"
	"github.com/sweeney/pollen-clock/internal/status"
	"github.com/sweeney/pollen-clock/internal/web"
)

const clientID = "pollen-clock"

// mqttPollInterval is how often the status page's MQTT flag is refreshed.
const mqttPollInterval = 5 * time.Second

func main() {
	cfg, err := loadConfig(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config) error {
	sig, stopSignals := signals.Notify()
	defer stopSignals()

	strip, err := led.OpenSPI(cfg.spiPort, cfg.spiHz, cfg.leds)
	if err != nil {
		return fmt.Errorf("init led strip: %w", err)
	}
	defer func() {
		if err := strip.Close(); err != nil {
			log.Printf("led strip close: %v", err)
		}
	}()

	tracker := status.NewTracker(time.Now(), status.Config{
		LEDs:        cfg.leds,
		Offset:      cfg.offset,
		GraceMs:     cfg.grace.Milliseconds(),
		RenderMs:    cfg.render.Milliseconds(),
		RefreshMs:   cfg.refresh.Milliseconds(),
		MaxFailures: cfg.maxFailures,
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
	})

	sinks := notify.Multi{notify.NewIFTTT(notify.DefaultEvent, cfg.iftttKey)}

	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.broker != "" {
		p := mqtt.NewRealPublisher(cfg.broker, clientID)
		defer p.Close()
		publisher, mqttStatus = p, p
		sinks = append(sinks, notify.PublisherSink{Publisher: p})

		err := p.PublishSystem(mqtt.SystemEvent{
			Timestamp: time.Now(),
			Event:     "STARTUP",
			Retained:  true,
		})
		if err != nil {
			log.Printf("failed to publish startup event: %v", err)
		}
	}

	sched := scheduler.New(scheduler.Config{
		LEDs:    cfg.leds,
		Offset:  cfg.offset,
		Render:  cfg.render,
		Refresh: cfg.refresh,
		Grace:   cfg.grace,
	}, scheduler.Deps{
		Clock:   clockface.SystemClock{},
		Driver:  strip,
		Fetcher: pollen.NewHTTPFetcher(cfg.pollenURL, cfg.region),
		OpenSensor: func() (motion.Sensor, error) {
			s, err := motion.NewGPIOSensor(cfg.pinPIR)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Signals:   sig,
		Publisher: publisher,
		Tracker:   tracker,
	})

	sup := scheduler.NewSupervisor(sched, sinks)
	sup.MaxFailures = cfg.maxFailures
	sup.Backoff = cfg.backoff
	sup.Stop = sig
	sup.Tracker = tracker

	log.Printf("started: leds=%d offset=%d grace=%v refresh=%v broker=%q http=%q",
		cfg.leds, cfg.offset, cfg.grace, cfg.refresh, cfg.broker, cfg.httpAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The supervisor decides the process lifetime.
		defer cancel()
		return sup.Run()
	})

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		g.Go(func() error {
			// The clock keeps running without its status page.
			if err := srv.Run(ctx); err != nil {
				log.Printf("http server error: %v", err)
			}
			return nil
		})
	}

	if mqttStatus != nil {
		g.Go(func() error {
			watchMQTT(ctx, mqttStatus, tracker, mqttPollInterval)
			return nil
		})
	}

	return g.Wait()
}

// watchMQTT copies the broker connection state into the tracker until ctx is done.
func watchMQTT(ctx context.Context, conn mqtt.ConnectionStatus, tracker *status.Tracker, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		tracker.SetMQTTConnected(conn.IsConnected())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
