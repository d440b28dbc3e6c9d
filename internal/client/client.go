package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/LT1923/4c2025/internal/models"
)

const requestIDHeader = "X-Request-ID"

// Client represents an HTTP client for the photo album API
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	logger     zerolog.Logger
}

// New creates a new API client. A zero timeout means requests wait
// for the server indefinitely.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		validate: validator.New(),
		logger:   log.With().Str("component", "api-client").Logger(),
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the API root all endpoint paths are appended to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the part shared by every API response
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// doJSON sends body (if any) as JSON and decodes the payload into out
func (c *Client) doJSON(method, path string, body any, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
		contentType = "application/json"
	}
	return c.do(method, path, reader, contentType, out)
}

// do performs one request and applies the envelope rules: non-2xx becomes
// *StatusError, success=false becomes *APIError, anything unparseable wraps
// ErrMalformedResponse.
func (c *Client) do(method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("API request failed")
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("API request")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var env envelope
		if json.Unmarshal(data, &env) == nil {
			statusErr.Message = env.Message
		}
		return statusErr
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if env.Success == nil {
		return fmt.Errorf("%w: missing success flag", ErrMalformedResponse)
	}
	if !*env.Success {
		return &APIError{Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	return nil
}

func (c *Client) check(req any) error {
	if err := c.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidRequest, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// credentials is the login and register request body
type credentials struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// Login authenticates the user and returns the user record
func (c *Client) Login(phone, password string) (*LoginResponse, error) {
	var loginResp LoginResponse
	if err := c.doJSON(http.MethodPost, "/users/login", credentials{Phone: phone, Password: password}, &loginResp); err != nil {
		return nil, err
	}

	if loginResp.User == nil {
		return nil, fmt.Errorf("%w: login response without user", ErrMalformedResponse)
	}

	return &loginResp, nil
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// Register creates a new account. It does not log in.
func (c *Client) Register(phone, password string) (*RegisterResponse, error) {
	var regResp RegisterResponse
	if err := c.doJSON(http.MethodPost, "/users/register", credentials{Phone: phone, Password: password}, &regResp); err != nil {
		return nil, err
	}
	return &regResp, nil
}
