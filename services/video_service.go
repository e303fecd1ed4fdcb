package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// VideoProvider is the external conferencing service the sessions run on.
// The core only ever asks it for a provider-side session and one access
// token per participant.
type VideoProvider interface {
	CreateSession(ctx context.Context, sessionID string) (string, error)
	IssueToken(ctx context.Context, providerSession, participantName string) (string, error)
}

// OpenViduClient talks to an OpenVidu-compatible REST API.
type OpenViduClient struct {
	BaseURL string
	Secret  string
	HTTP    *http.Client
}

// NewOpenViduClient reads VIDEO_API_URL and VIDEO_API_SECRET from the
// environment.
func NewOpenViduClient() *OpenViduClient {
	return &OpenViduClient{
		BaseURL: os.Getenv("VIDEO_API_URL"),
		Secret:  os.Getenv("VIDEO_API_SECRET"),
		HTTP:    http.DefaultClient,
	}
}

// CreateSession registers a session with the provider and returns the
// provider-side session id.
func (c *OpenViduClient) CreateSession(ctx context.Context, sessionID string) (string, error) {
	body := map[string]string{"customSessionId": sessionID}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/openvidu/api/sessions", body, &out); err != nil {
		return "", fmt.Errorf("failed to create provider session for '%s': %w", sessionID, err)
	}
	return out.ID, nil
}

// IssueToken creates a connection token for one participant.
func (c *OpenViduClient) IssueToken(ctx context.Context, providerSession, participantName string) (string, error) {
	body := map[string]string{"data": participantName}
	var out struct {
		Token string `json:"token"`
	}
	path := "/openvidu/api/sessions/" + providerSession + "/connection"
	if err := c.post(ctx, path, body, &out); err != nil {
		return "", fmt.Errorf("failed to issue token for '%s': %w", participantName, err)
	}
	return out.Token, nil
}

func (c *OpenViduClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("OPENVIDUAPP", c.Secret)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
