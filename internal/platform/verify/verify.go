// Package verify wraps the external biometric identity verifier. The matching
// algorithm itself is opaque to this service; we only care whether the payload
// was accepted for the claimed employee and which punctuality status the
// verifier assigned.
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrRejected = errors.New("identity not recognized")

type Request struct {
	UserID    string `json:"userId"`
	StationID string `json:"stationId"`
	Action    string `json:"action"`
	Payload   string `json:"payload"`
	// CapturedAt is the authoritative timestamp of the action; the verifier
	// classifies ON_TIME/LATE against it, not against the terminal's clock.
	CapturedAt time.Time `json:"capturedAt"`
	ExpectedAt time.Time `json:"expectedAt,omitempty"`
}

type Result struct {
	Accepted   bool   `json:"accepted"`
	StatusCode string `json:"statusCode"`
	Reason     string `json:"reason,omitempty"`
}

// Verifier is what the attendance service depends on; the HTTP client below
// is the production implementation.
type Verifier interface {
	Verify(ctx context.Context, req Request) (Result, error)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Verify(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("verifier unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("verifier returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("verifier response malformed: %w", err)
	}
	return result, nil
}
