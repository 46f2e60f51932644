package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Display       string      `json:"display"`
	Pollen        PollenJSON  `json:"pollen"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          MQTTStatus  `json:"mqtt"`
	Counts        CountsJSON  `json:"counts"`
	Restarts      RestartJSON `json:"restarts"`
	Config        ConfigJSON  `json:"config"`
}

// PollenJSON reports the last applied refresh.
type PollenJSON struct {
	Level     string `json:"level"`
	UpdatedAt string `json:"updated_at,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON counts work done since startup.
type CountsJSON struct {
	Frames int64 `json:"frames"`
	Motion int64 `json:"motion"`
}

// RestartJSON reports supervisor activity.
type RestartJSON struct {
	Runs      int    `json:"runs"`
	Failures  int    `json:"consecutive_failures"`
	LastError string `json:"last_error,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	LEDs        int    `json:"leds"`
	Offset      int    `json:"offset"`
	GraceMs     int64  `json:"grace_ms"`
	RenderMs    int64  `json:"render_ms"`
	RefreshMs   int64  `json:"refresh_ms"`
	MaxFailures int    `json:"max_failures"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

// FormatJSON returns the indented JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: build(snap)}, "", "  ")
	return data
}

// FormatCompactJSON returns the status on one line for streaming.
func FormatCompactJSON(snap Snapshot) []byte {
	data, _ := json.Marshal(StatusJSON{Status: build(snap)})
	return data
}

func build(snap Snapshot) StatusInner {
	display := string(snap.Activation)
	if display == "" {
		display = "UNKNOWN"
	}

	p := PollenJSON{Level: snap.Pollen.String(), Error: snap.PollenError}
	if !snap.PollenAt.IsZero() {
		p.UpdatedAt = snap.PollenAt.UTC().Format(time.RFC3339)
	}

	return StatusInner{
		Display:       display,
		Pollen:        p,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts:        CountsJSON{Frames: snap.Frames, Motion: snap.MotionEvents},
		Restarts:      RestartJSON{Runs: snap.Runs, Failures: snap.Failures, LastError: snap.LastError},
		Config: ConfigJSON{
			LEDs:        snap.Config.LEDs,
			Offset:      snap.Config.Offset,
			GraceMs:     snap.Config.GraceMs,
			RenderMs:    snap.Config.RenderMs,
			RefreshMs:   snap.Config.RefreshMs,
			MaxFailures: snap.Config.MaxFailures,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}
