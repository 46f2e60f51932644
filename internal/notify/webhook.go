package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultEvent is the IFTTT applet event name.
const DefaultEvent = "flower"

// Webhook posts errors to an IFTTT-style maker endpoint.
type Webhook struct {
	URL    string
	Client *http.Client
}

// NewIFTTT creates a Webhook for the maker channel key.
func NewIFTTT(event, key string) *Webhook {
	return &Webhook{
		URL:    fmt.Sprintf("https://maker.ifttt.com/trigger/%s/with/key/%s", event, key),
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type message struct {
	Value1 string `json:"value1,omitempty"`
	Value2 string `json:"value2,omitempty"`
	Value3 string `json:"value3,omitempty"`
}

// Notify posts the full error chain as value1.
func (w *Webhook) Notify(ctx context.Context, err error) error {
	body, merr := json.Marshal(message{Value1: fmt.Sprintf("%+v", err)})
	if merr != nil {
		return fmt.Errorf("encode webhook message: %w", merr)
	}

	req, rerr := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if rerr != nil {
		return fmt.Errorf("build webhook request: %w", rerr)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, derr := w.Client.Do(req)
	if derr != nil {
		// The URL carries the key; keep it out of the error.
		var ue *url.Error
		if errors.As(derr, &ue) {
			derr = ue.Err
		}
		return fmt.Errorf("post webhook: %w", derr)
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("post webhook: status %d", resp.StatusCode)
	}
	return nil
}
