package dialogflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultEndpoint = "https://dialogflow.googleapis.com"

// Client calls the platform's detectIntent REST endpoint on behalf of the
// browser front end.
type Client struct {
	tokens    *TokenSource
	endpoint  string
	projectID string
	sessionID string
	language  string
	http      *http.Client
}

// NewClient returns a detectIntent client for the given agent project.
func NewClient(tokens *TokenSource, projectID, sessionID, language string) *Client {
	return &Client{
		tokens:    tokens,
		endpoint:  defaultEndpoint,
		projectID: projectID,
		sessionID: sessionID,
		language:  language,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// DetectIntent sends text to the agent and returns the raw platform
// response for the front end to interpret. Empty text falls back to a
// greeting so the page can open the conversation.
func (c *Client) DetectIntent(ctx context.Context, text string) (json.RawMessage, error) {
	if text == "" {
		text = "Hello"
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"queryInput": map[string]any{
			"text": map[string]any{
				"text":         text,
				"languageCode": c.language,
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v2/projects/%s/agent/sessions/%s:detectIntent",
		c.endpoint, c.projectID, c.sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detectIntent: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("detectIntent: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detectIntent: unexpected status %s", resp.Status)
	}
	return json.RawMessage(data), nil
}
