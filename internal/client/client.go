// Package client is the student device's HTTP client for the backend.
// It is constructed with a base URL and passed to whatever needs it;
// there is no package-level shared instance.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"queon/internal/models"
	"queon/internal/utils"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given server base URL. Calls time out
// after 10 seconds so a dead network cannot hang the exam flow.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ValidateEntry presents an entry token. A reachable server always
// yields a response (allowed or denied); only transport problems
// return an error.
func (c *Client) ValidateEntry(examID, tok string) (*models.ValidateResponse, error) {
	return c.validate("/api/exams/validate-entry", examID, tok)
}

// ValidateExit presents an exit token.
func (c *Client) ValidateExit(examID, tok string) (*models.ValidateResponse, error) {
	return c.validate("/api/exams/validate-exit", examID, tok)
}

func (c *Client) validate(path, examID, tok string) (*models.ValidateResponse, error) {
	body, status, err := c.postJSON(path, models.ValidateRequest{ExamID: examID, Token: tok})
	if err != nil {
		return nil, utils.Newf(utils.KindTransportFailure, "server unreachable: %v", err)
	}
	if status >= 500 {
		return nil, utils.Newf(utils.KindTransportFailure, "server error (status %d)", status)
	}
	var res models.ValidateResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, utils.Newf(utils.KindTransportFailure, "malformed server response: %v", err)
	}
	return &res, nil
}

// ReportIncident posts an incident. The caller is expected to treat
// failures as best-effort; this method just reports them.
func (c *Client) ReportIncident(inc models.Incident) error {
	_, status, err := c.postJSON("/api/exams/incident", inc)
	if err != nil {
		return fmt.Errorf("post incident: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("incident rejected with status %d", status)
	}
	return nil
}

func (c *Client) postJSON(path string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return b, resp.StatusCode, nil
}
