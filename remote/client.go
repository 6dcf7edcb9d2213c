// Package remote talks to the remote task store and provides a reference
// implementation of it.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/session"
)

const maxResponseSize = 1 << 20

// TaskList is the body of a GET response.
type TaskList struct {
	Tasks []models.Task `json:"tasks,omitempty"`
}

// Payload is the body of a POST request.
type Payload struct {
	Tasks   []models.Task  `json:"tasks"`
	Summary models.Summary `json:"summary"`
}

// Client fetches and pushes day ledgers over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient returns a client for the store rooted at baseURL. Requests are
// authenticated with the session token and bounded by timeout.
func NewClient(baseURL string, sess *session.Session, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    sess.HTTPClient(timeout),
	}
}

func (c *Client) endpoint(date string) string {
	return c.baseURL + "/tasks/" + url.PathEscape(date)
}

// Fetch returns the intervals stored remotely for date. The boolean is false
// when the store has no data for that date.
func (c *Client) Fetch(ctx context.Context, date string) ([]models.Task, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(date), http.NoBody)
	if err != nil {
		return nil, false, ErrUnavailable.Wrap(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, ErrUnavailable.Wrap(err)
	}

	defer resp.Body.Close()

	if err := checkStatus(resp, date); err != nil {
		return nil, false, err
	}

	var list TaskList

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize))
	if err := dec.Decode(&list); err != nil {
		return nil, false, ErrUnavailable.Wrap(fmt.Errorf("decoding response: %w", err))
	}

	if len(list.Tasks) == 0 {
		return nil, false, nil
	}

	return list.Tasks, true, nil
}

// Push stores tasks and their summary remotely for date.
func (c *Client) Push(
	ctx context.Context,
	date string,
	tasks []models.Task,
	summary models.Summary,
) error {
	body, err := json.Marshal(Payload{Tasks: tasks, Summary: summary})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint(date),
		bytes.NewReader(body),
	)
	if err != nil {
		return ErrUnavailable.Wrap(err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ErrUnavailable.Wrap(err)
	}

	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	return checkStatus(resp, date)
}

// checkStatus maps a response status to the sync error taxonomy.
func checkStatus(resp *http.Response, date string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return ErrRejected.Fmt(date)
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return ErrUnavailable.Wrap(
			errUnexpectedStatus.Fmt(resp.StatusCode, resp.Request.URL.Path),
		)
	}
}
