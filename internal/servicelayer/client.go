// Package servicelayer is a typed HTTP client for the SAP Business One
// Service Layer. It owns the wire formats and the session cookie
// handling; session lifecycle policy lives in the broker on top of it.
package servicelayer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sgsprojects/timesheet-api/pkg/utils/zaplogger"
)

const (
	sessionCookieName = "B1SESSION"
	routeCookieName   = "ROUTEID"
	timesheetResource = "UDO_SGS_PRJ_OTMS"
)

// Client talks to one Service Layer endpoint. It is safe for concurrent
// use: the session is passed per call and never stored on the client or
// on shared default headers.
type Client struct {
	baseURL    string
	companyDB  string
	httpClient *http.Client
}

// New creates a Service Layer client for the given base URL and company
// database.
func New(baseURL, companyDB string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		companyDB: companyDB,
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: &loggingTransport{next: http.DefaultTransport},
		},
	}
}

// Login authenticates username/password against the Service Layer and
// returns the session id plus the sticky-routing cookie, when present.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	body, err := json.Marshal(loginRequest{
		CompanyDB: c.companyDB,
		UserName:  username,
		Password:  password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("service layer login: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var lr loginResponse
	if err := json.Unmarshal(respBody, &lr); err != nil {
		return nil, fmt.Errorf("service layer login: decoding response: %w", err)
	}

	session := &Session{ID: lr.SessionId}
	for _, cookie := range resp.Cookies() {
		switch cookie.Name {
		case sessionCookieName:
			session.ID = cookie.Value
		case routeCookieName:
			session.RouteID = cookie.Value
		}
	}
	if session.ID == "" {
		return nil, fmt.Errorf("service layer login: no session id in response")
	}

	return session, nil
}

// Logout releases the given session upstream. Errors are reported but a
// session that is already gone is not a failure.
func (c *Client) Logout(ctx context.Context, session *Session) error {
	err := c.do(ctx, session, http.MethodPost, "/Logout", nil, nil)
	if IsAuthFailure(err) {
		return nil
	}
	return err
}

// Probe makes the cheapest possible authenticated call to check whether
// the session is still accepted upstream.
func (c *Client) Probe(ctx context.Context, session *Session) error {
	path := "/" + timesheetResource + "?$top=1&$select=Code"
	return c.do(ctx, session, http.MethodGet, path, nil, nil)
}

// GetByCode fetches a single timesheet document by its record code.
func (c *Client) GetByCode(ctx context.Context, session *Session, code string) (*TimesheetDocument, error) {
	var doc TimesheetDocument
	err := c.do(ctx, session, http.MethodGet, recordPath(code), nil, &doc)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &doc, nil
}

// FindByDocEntry resolves a DocEntry to its document. The write endpoints
// address records by code, so updates need this lookup first.
func (c *Client) FindByDocEntry(ctx context.Context, session *Session, docEntry int) (*TimesheetDocument, error) {
	query := url.Values{"$filter": {fmt.Sprintf("DocEntry eq %d", docEntry)}}
	path := "/" + timesheetResource + "?" + query.Encode()
	var coll timesheetCollection
	if err := c.do(ctx, session, http.MethodGet, path, nil, &coll); err != nil {
		return nil, err
	}
	if len(coll.Value) == 0 {
		return nil, ErrNotFound
	}
	return &coll.Value[0], nil
}

// Create posts a new timesheet document and returns the server's copy.
func (c *Client) Create(ctx context.Context, session *Session, doc *TimesheetDocument) (*TimesheetDocument, error) {
	var created TimesheetDocument
	if err := c.do(ctx, session, http.MethodPost, "/"+timesheetResource, doc, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update patches only the given fields of the record addressed by code.
func (c *Client) Update(ctx context.Context, session *Session, code string, fields map[string]interface{}) error {
	return translateNotFound(c.do(ctx, session, http.MethodPatch, recordPath(code), fields, nil))
}

// Delete removes the record addressed by code.
func (c *Client) Delete(ctx context.Context, session *Session, code string) error {
	return translateNotFound(c.do(ctx, session, http.MethodDelete, recordPath(code), nil, nil))
}

// do sends one Service Layer request with the session cookies attached.
// Non-2xx responses come back as *StatusError with the body preserved.
func (c *Client) do(ctx context.Context, session *Session, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: session.ID})
		if session.RouteID != "" {
			req.AddCookie(&http.Cookie{Name: routeCookieName, Value: session.RouteID})
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("service layer %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("service layer %s %s: decoding response: %w", method, path, err)
		}
	}

	return nil
}

func recordPath(code string) string {
	return fmt.Sprintf("/%s('%s')", timesheetResource, url.PathEscape(code))
}

func translateNotFound(err error) error {
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

// loggingTransport logs every outbound call with its status and latency.
// Cookie values never reach the log.
type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		zaplogger.Error("service layer request failed", zaplogger.Fields{
			"method":   req.Method,
			"url":      req.URL.Redacted(),
			"duration": elapsed.String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	zaplogger.Debug("service layer request", zaplogger.Fields{
		"method":   req.Method,
		"url":      req.URL.Redacted(),
		"status":   resp.StatusCode,
		"duration": elapsed.String(),
	})
	return resp, nil
}
