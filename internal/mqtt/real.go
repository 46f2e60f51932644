package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// backlogSize is how many messages are kept while the broker is unreachable.
const backlogSize = 64

// RealPublisher publishes to an MQTT broker without blocking the caller.
// Messages published while disconnected are replayed on reconnect, ahead of
// anything published after it.
type RealPublisher struct {
	client paho.Client

	// mu orders every hand-off to the client: live sends wait for a replay
	// in progress, so backlog messages always go out first.
	mu      sync.Mutex
	online  bool
	pending *backlog
}

// willPayload is the retained OFFLINE event the broker publishes for us.
// It carries no timestamp: it is composed at connect time but sent whenever
// the connection is lost.
func willPayload() ([]byte, error) {
	return FormatSystemPayload(SystemEvent{Event: "OFFLINE"})
}

// NewRealPublisher starts connecting to broker in the background.
func NewRealPublisher(broker, clientID string) *RealPublisher {
	p := &RealPublisher{pending: newBacklog(backlogSize)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost)

	if will, err := willPayload(); err != nil {
		log.Printf("mqtt: no OFFLINE will: %v", err)
	} else {
		opts.SetWill(TopicSystem, string(will), 1, true)
	}

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// Publish sends a clock event (QoS 0).
func (p *RealPublisher) Publish(event ClockEvent) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	p.send(bufferedMsg{topic: Topic, payload: payload})
	return nil
}

// PublishSystem sends a lifecycle event (QoS 1).
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
	return nil
}

// IsConnected reports whether the client currently has a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

// send publishes msg, or backlogs it until the next replay has finished.
func (p *RealPublisher) send(msg bufferedMsg) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.online {
		p.pending.push(msg)
		return
	}
	p.publish(msg)
}

// publish hands msg to paho and reports the outcome off the caller's goroutine.
func (p *RealPublisher) publish(msg bufferedMsg) {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	go func() {
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: publish to %s timed out", msg.topic)
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: publish to %s: %v", msg.topic, err)
		}
	}()
}

// onConnect replays the backlog, then lets live sends through.
func (p *RealPublisher) onConnect(paho.Client) {
	p.mu.Lock()
	defer p.mu.Unlock()

	msgs, dropped := p.pending.drain()
	if dropped > 0 {
		log.Printf("mqtt: %d messages dropped while offline", dropped)
	}
	if len(msgs) > 0 {
		log.Printf("mqtt: replaying %d buffered messages", len(msgs))
	}
	for _, m := range msgs {
		p.publish(m)
	}
	p.online = true
}

func (p *RealPublisher) onConnectionLost(_ paho.Client, err error) {
	log.Printf("mqtt: connection lost: %v", err)
	p.mu.Lock()
	p.online = false
	p.mu.Unlock()
}
