// Package client is the library station terminals and planner views use to
// talk to the scheduling service. It normalizes the two list response shapes
// the platform's APIs produce and maps rejection codes onto typed errors so
// a terminal can tell "try again" apart from "go re-register".
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"rosterd/internal/domain/attendance"
	"rosterd/internal/domain/schedule"
)

var (
	// ErrStationInvalid means the terminal credential was not accepted; the
	// operator must be sent to station registration, not offered a retry.
	ErrStationInvalid = errors.New("station not registered")
	// ErrIdentityRejected is the verifier declining the actor.
	ErrIdentityRejected = errors.New("identity not recognized")
	// ErrWindowClosed is a server-side window rejection. It can arrive even
	// after a local check said the window was open (clock drift, stale data)
	// and must win over the local verdict.
	ErrWindowClosed = errors.New("check-in window closed")
)

type Client struct {
	baseURL      string
	stationToken string
	bearerToken  string
	http         *http.Client
}

func New(baseURL, stationToken, bearerToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		stationToken: stationToken,
		bearerToken:  bearerToken,
		http:         &http.Client{Timeout: timeout},
	}
}

// ServerTime fetches the authoritative clock; the clock.Authority uses this
// once per session.
func (c *Client) ServerTime(ctx context.Context) (time.Time, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/time", nil)
	if err != nil {
		return time.Time{}, err
	}

	var payload struct {
		Now time.Time `json:"now"`
	}
	if err := unwrapObject(body, &payload); err != nil {
		return time.Time{}, err
	}
	if payload.Now.IsZero() {
		return time.Time{}, errors.New("time response missing now field")
	}
	return payload.Now, nil
}

// ListSchedules fetches the employee's assignments for a date range.
func (c *Client) ListSchedules(ctx context.Context, from, to time.Time, userID string) ([]schedule.WorkSchedule, error) {
	query := url.Values{}
	query.Set("from", from.Format("2006-01-02"))
	query.Set("to", to.Format("2006-01-02"))
	if userID != "" {
		query.Set("userId", userID)
	}

	body, err := c.do(ctx, http.MethodGet, "/api/v1/schedules?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var out []schedule.WorkSchedule
	if err := unwrapList(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type actionRequest struct {
	BiometricPayload string `json:"biometricPayload"`
}

// CheckIn submits a check-in action for one schedule.
func (c *Client) CheckIn(ctx context.Context, scheduleID, biometricPayload string) (attendance.Timesheet, error) {
	return c.action(ctx, scheduleID, "check-in", biometricPayload)
}

// CheckOut submits a check-out action for one schedule.
func (c *Client) CheckOut(ctx context.Context, scheduleID, biometricPayload string) (attendance.Timesheet, error) {
	return c.action(ctx, scheduleID, "check-out", biometricPayload)
}

func (c *Client) action(ctx context.Context, scheduleID, action, biometricPayload string) (attendance.Timesheet, error) {
	payload, err := json.Marshal(actionRequest{BiometricPayload: biometricPayload})
	if err != nil {
		return attendance.Timesheet{}, err
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/schedules/"+scheduleID+"/"+action, payload)
	if err != nil {
		return attendance.Timesheet{}, err
	}

	var ts attendance.Timesheet
	if err := unwrapObject(body, &ts); err != nil {
		return attendance.Timesheet{}, err
	}
	return ts, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.stationToken != "" {
		req.Header.Set("X-Station-Token", c.stationToken)
	}
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

// apiError turns a failure envelope into a typed error when the code is one
// the terminal reacts to specially.
func apiError(status int, body []byte) error {
	var envelope struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return fmt.Errorf("request failed with status %d", status)
	}

	switch envelope.Error.Code {
	case "station_invalid":
		return ErrStationInvalid
	case "identity_rejected":
		return ErrIdentityRejected
	case "window_closed":
		return ErrWindowClosed
	}
	return fmt.Errorf("%s (status %d)", envelope.Error.Message, status)
}

// unwrapList accepts either a bare JSON array or a success envelope whose
// data field holds the array. Every consumer sees one typed shape.
func unwrapList(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

// unwrapObject accepts either a bare JSON object or the same envelope.
func unwrapObject(body []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		return json.Unmarshal(envelope.Data, out)
	}
	return json.Unmarshal(body, out)
}
