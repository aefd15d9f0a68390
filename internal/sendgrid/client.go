// internal/sendgrid/client.go
package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the production SendGrid API endpoint.
const DefaultBaseURL = "https://api.sendgrid.com"

// HTTPDoer lets tests substitute the transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a minimal SendGrid v3 mail client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
}

// NewClient creates a SendGrid client for the given API key. An empty
// baseURL selects the production endpoint.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient overrides the transport (tests).
func (c *Client) SetHTTPClient(doer HTTPDoer) { c.httpClient = doer }

// Address is a sender or recipient identity.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Email is one fully personalized message.
type Email struct {
	To      string
	From    Address
	Subject string
	HTML    string
	Text    string
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type tracking struct {
	Enable bool `json:"enable"`
}

type sendPayload struct {
	Personalizations []struct {
		To []Address `json:"to"`
	} `json:"personalizations"`
	From             Address   `json:"from"`
	Subject          string    `json:"subject"`
	Content          []content `json:"content"`
	TrackingSettings struct {
		ClickTracking tracking `json:"click_tracking"`
		OpenTracking  tracking `json:"open_tracking"`
	} `json:"tracking_settings"`
}

// Send posts one message to the v3 mail/send endpoint with open and click
// tracking requested. It returns the provider status code on success; on
// failure the error carries the provider's reported detail when available.
func (c *Client) Send(ctx context.Context, email Email) (int, error) {
	html := email.HTML
	if html == "" {
		html = email.Text
	}

	payload := sendPayload{
		From:    email.From,
		Subject: email.Subject,
	}
	// SendGrid requires text/plain before text/html.
	if email.Text != "" && email.HTML != "" {
		payload.Content = append(payload.Content, content{Type: "text/plain", Value: email.Text})
	}
	payload.Content = append(payload.Content, content{Type: "text/html", Value: html})
	payload.Personalizations = append(payload.Personalizations, struct {
		To []Address `json:"to"`
	}{To: []Address{{Email: email.To}}})
	payload.TrackingSettings.ClickTracking.Enable = true
	payload.TrackingSettings.OpenTracking.Enable = true

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf("sendgrid API error (status %d): %s", resp.StatusCode, string(detail))
	}
	return resp.StatusCode, nil
}
