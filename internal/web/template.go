package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/pollen-clock/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"pollenClass": func(level string) string {
		switch level {
		case "HIGH":
			return "high"
		case "MEDIUM":
			return "medium"
		case "LOW":
			return "low"
		}
		return "unknown"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Pollen Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.high { color: red; font-weight: bold; }
.medium { color: #c90; font-weight: bold; }
.low { color: green; font-weight: bold; }
.unknown { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Pollen Clock</h1>

<h2>Display</h2>
<table>
<tr><th>Display</th><td id="display">{{.Activation}}</td></tr>
<tr><th>Pollen</th><td id="pollen" class="{{pollenClass .Pollen.String}}">{{.Pollen}}</td></tr>
{{if .PollenError}}<tr><th>Last refresh error</th><td>{{.PollenError}}</td></tr>{{end}}
<tr><th>Frames</th><td id="frames">{{.Frames}}</td></tr>
<tr><th>Motion events</th><td id="motion">{{.MotionEvents}}</td></tr>
</table>

<h2>Supervisor</h2>
<table>
<tr><th>Runs</th><td>{{.Runs}}</td></tr>
<tr><th>Consecutive failures</th><td>{{.Failures}} / {{.Config.MaxFailures}}</td></tr>
{{if .LastError}}<tr><th>Last error</th><td>{{.LastError}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>LEDs</th><td>{{.Config.LEDs}} (offset {{.Config.Offset}})</td></tr>
<tr><th>Grace</th><td>{{.Config.GraceMs}}ms</td></tr>
<tr><th>Refresh</th><td>{{.Config.RefreshMs}}ms</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function(ev) {
    try {
      var s = JSON.parse(ev.data).status;
      document.getElementById("display").textContent = s.display;
      var p = document.getElementById("pollen");
      p.textContent = s.pollen.level;
      p.className = s.pollen.level.toLowerCase();
      document.getElementById("frames").textContent = s.counts.frames;
      document.getElementById("motion").textContent = s.counts.motion;
    } catch (e) {}
  };
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
