// Package ipfs pins JSON documents through the Pinata API.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

const (
	DefaultAPIURL     = "https://api.pinata.cloud"
	DefaultGatewayURL = "https://gateway.pinata.cloud"
)

type PinataClient struct {
	client      *http.Client
	apiURL      string
	gatewayURL  string
	maxAttempts int
	baseDelay   time.Duration
	logger      *zap.Logger
}

// NewPinataClient authenticates with a Pinata JWT. maxAttempts below 1 means
// a single attempt.
func NewPinataClient(ctx context.Context, jwt, apiURL, gatewayURL string, maxAttempts int, logger *zap.Logger) *PinataClient {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if gatewayURL == "" {
		gatewayURL = DefaultGatewayURL
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &PinataClient{
		client:      oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: jwt})),
		apiURL:      strings.TrimRight(apiURL, "/"),
		gatewayURL:  strings.TrimRight(gatewayURL, "/"),
		maxAttempts: maxAttempts,
		baseDelay:   500 * time.Millisecond,
		logger:      logger,
	}
}

var _ ports.Pinner = (*PinataClient)(nil)

type pinRequest struct {
	PinataContent  any            `json:"pinataContent"`
	PinataMetadata pinataMetadata `json:"pinataMetadata"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func (c *PinataClient) GatewayURL(hash string) string {
	return c.gatewayURL + "/ipfs/" + hash
}

// PinJSON uploads content and returns its CID. Transport errors, 429 and 5xx
// are retried with exponential backoff up to maxAttempts.
func (c *PinataClient) PinJSON(ctx context.Context, name string, content any) (string, error) {
	body, err := json.Marshal(pinRequest{PinataContent: content, PinataMetadata: pinataMetadata{Name: name}})
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.baseDelay * time.Duration(1<<uint(attempt-2))
			c.logger.Warn("Retrying pin upload",
				zap.String("name", name),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		hash, err := c.pinOnce(ctx, body)
		if err == nil {
			return hash, nil
		}
		lastErr = err

		var ue *domain.UpstreamError
		if !errors.As(err, &ue) || !ue.Retryable() || ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (c *PinataClient) pinOnce(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/pinning/pinJSONToIPFS", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &domain.UpstreamError{Service: "pinata", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &domain.UpstreamError{
			Service:    "pinata",
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(msg))),
		}
	}

	var out pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding pin response: %w", err)
	}
	if out.IpfsHash == "" {
		return "", errors.New("pin response has no IpfsHash")
	}
	return out.IpfsHash, nil
}
