package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/resumefit/internal/client/models"
)

const (
	loginPath  = "/api/v1/auth/login"
	signupPath = "/api/v1/auth/signup"
	submitPath = "/api/v1/jobs/submit-application"
	healthPath = "/api/v1/base/health"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// Multipart field names of the submission endpoint.
const (
	FieldResume         = "resume"
	FieldJobTitle       = "job_title"
	FieldJobDescription = "job_description"
	FieldJobURL         = "job_url"
)

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

// NewHTTPClient returns a client for the service rooted at baseURL.
// A nil httpClient means http.DefaultClient.
func NewHTTPClient(baseURL string, httpClient *http.Client) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: u, http: httpClient}, nil
}

func (c *HTTPClient) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	User         json.RawMessage `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	req, err := c.newJSONRequest(ctx, loginPath, loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, fmt.Errorf("%w: missing tokens", ErrMalformedResponse)
	}
	if len(resp.User) == 0 || bytes.Equal(resp.User, []byte("null")) {
		return nil, fmt.Errorf("%w: missing user", ErrMalformedResponse)
	}

	var user models.Identity
	if err := json.Unmarshal(resp.User, &user); err != nil {
		return nil, fmt.Errorf("%w: user: %w", ErrMalformedResponse, err)
	}

	return &models.LoginResult{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		User:         user,
	}, nil
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Signup(ctx context.Context, name, email, password string) error {
	req, err := c.newJSONRequest(ctx, signupPath, signupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

type submitResponse struct {
	Message string `json:"message"`
	Data    *struct {
		FitScore *float64 `json:"fit_score"`
		Insights []string `json:"insights"`
	} `json:"data"`
}

func (c *HTTPClient) SubmitApplication(ctx context.Context, token string, app models.Application) (*models.AnalysisResult, error) {
	body, contentType, err := encodeApplication(app)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(submitPath), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	var resp submitResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil || resp.Data.FitScore == nil {
		return nil, fmt.Errorf("%w: missing fit score", ErrMalformedResponse)
	}
	score := math.Round(*resp.Data.FitScore)
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: fit score %v out of range", ErrMalformedResponse, *resp.Data.FitScore)
	}

	insights := resp.Data.Insights
	if insights == nil {
		insights = []string{}
	}
	return &models.AnalysisResult{FitScore: int(score), Insights: insights}, nil
}

// Ping probes the health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(healthPath), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) newJSONRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a 2xx JSON body into out (when non-nil).
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newServerError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

func encodeApplication(app models.Application) (io.Reader, string, error) {
	if app.Resume == nil {
		return nil, "", fmt.Errorf("encode application: resume is missing")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	mediaType := app.Resume.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	name := app.Resume.Name
	if name == "" {
		name = "resume.pdf"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldResume, name))
	h.Set("Content-Type", mediaType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("encode application: %w", err)
	}
	if _, err := part.Write(app.Resume.Content); err != nil {
		return nil, "", fmt.Errorf("encode application: %w", err)
	}

	fields := []struct{ name, value string }{
		{FieldJobTitle, app.JobTitle},
		{FieldJobDescription, app.JobDescription},
		{FieldJobURL, app.JobURL},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("encode application: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode application: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
