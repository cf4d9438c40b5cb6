// Package webform submits form data to shop endpoints that answer the
// generic {success, message} JSON contract.
package webform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GenericErrorMessage is shown when the server gives no usable message
const GenericErrorMessage = "Request failed, please try again"

// Result is the outcome of one form submission
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// UserMessage returns the message to surface to the user
func (r Result) UserMessage() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Error != "" {
		return r.Error
	}
	if r.Success {
		return "OK"
	}
	return GenericErrorMessage
}

// Client posts forms and decodes the {success, message} response shape.
// Exactly one round trip per submission; failures are reported, never
// retried.
type Client struct {
	client *http.Client
}

// NewClient creates a form submission client
func NewClient(timeout time.Duration) *Client {
	return &Client{client: &http.Client{Timeout: timeout}}
}

// Submit posts the values as a URL-encoded form and decodes the JSON
// result. Transport failures and undecodable bodies come back as a failed
// Result carrying the generic message, together with the underlying error.
func (c *Client) Submit(ctx context.Context, endpoint string, values url.Values) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return Result{Message: GenericErrorMessage}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Message: GenericErrorMessage}, err
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{Message: GenericErrorMessage}, err
	}
	return result, nil
}

// SubmitJSON posts the payload as JSON for endpoints that take a JSON body
func (c *Client) SubmitJSON(ctx context.Context, endpoint string, payload any) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Message: GenericErrorMessage}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return Result{Message: GenericErrorMessage}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Message: GenericErrorMessage}, err
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{Message: GenericErrorMessage}, err
	}
	return result, nil
}
