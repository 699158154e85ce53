package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
)

var (
	// ErrNoResponseBody means the endpoint answered 2xx but sent no
	// stream to decode. Surfaced before any decoding begins.
	ErrNoResponseBody = errors.New("assistant: response has no body")
)

// EndpointError is the structured failure payload of a non-2xx response.
type EndpointError struct {
	StatusCode int
	Message    string
}

func (e *EndpointError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("assistant: endpoint returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("assistant: endpoint returned %d", e.StatusCode)
}

// Client talks to the remote text-generation endpoint. One StreamChat
// call owns one connection and one Decoder; concurrent exchanges must
// not share a call.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			// No overall timeout: the stream stays open for the whole
			// generation. Cancellation comes from the request context.
			Timeout: 0,
		},
	}
}

type chatRequest struct {
	Messages    []domain.ChatMessage `json:"messages"`
	UserContext *domain.UserContext  `json:"userContext,omitempty"`
	Stream      bool                 `json:"stream"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// StreamChat sends the transcript and decodes the streamed reply,
// invoking onDelta for every text fragment as it arrives. It returns the
// full assistant content accumulated so far; on a mid-stream failure the
// partial content is returned alongside the error.
func (c *Client) StreamChat(ctx context.Context, messages []domain.ChatMessage, userContext *domain.UserContext, onDelta func(string) error) (string, error) {
	body, err := json.Marshal(chatRequest{
		Messages:    messages,
		UserContext: userContext,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("assistant: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assistant: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.readEndpointError(resp)
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return "", ErrNoResponseBody
	}

	return c.decode(resp.Body, onDelta)
}

// readEndpointError extracts the human-readable message from a failure
// payload, falling back to the bare status code.
func (c *Client) readEndpointError(resp *http.Response) error {
	endpointErr := &EndpointError{StatusCode: resp.StatusCode}

	if resp.Body != nil {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if err == nil {
			var parsed errorResponse
			if json.Unmarshal(raw, &parsed) == nil {
				endpointErr.Message = parsed.Error
			}
		}
	}

	return endpointErr
}

func (c *Client) decode(body io.Reader, onDelta func(string) error) (string, error) {
	decoder := NewDecoder()
	var content bytes.Buffer
	buf := make([]byte, 4096)

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			deltas, done := decoder.Feed(buf[:n])
			for _, delta := range deltas {
				content.WriteString(delta)
				if onDelta != nil {
					if err := onDelta(delta); err != nil {
						return content.String(), err
					}
				}
			}
			if done {
				return content.String(), nil
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return content.String(), nil
			}
			return content.String(), fmt.Errorf("assistant: stream read failed: %w", readErr)
		}
	}
}

// defaultStreamTimeout bounds how long an exchange may stay open when
// the caller did not set its own deadline.
const defaultStreamTimeout = 5 * time.Minute

// StreamTimeoutContext wraps ctx with the default stream deadline.
func StreamTimeoutContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultStreamTimeout)
}
