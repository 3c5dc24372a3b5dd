package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/logging"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	httpclient *http.Client
	uploads    *http.Client
	api        string
	log        logging.Logger
}

type Option func(*HTTPClient)

// WithUploadTimeout bounds each Upload by d instead of the request timeout,
// which would cut off large files on slow links. Zero means no limit.
func WithUploadTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.uploads = &http.Client{Timeout: d} }
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the API rooted at baseURL. A zero
// timeout means no per-request limit. Uploads share the timeout unless
// WithUploadTimeout says otherwise.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		httpclient: &http.Client{Timeout: timeout},
		api:        strings.TrimSuffix(baseURL, "/"),
		log:        log.With("module", "http-client"),
	}
	c.uploads = c.httpclient
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// apipath joins path segments onto the API root. A trailing slash on the
// last segment is kept since the server distinguishes "/users/" from "/users".
func (c *HTTPClient) apipath(path ...string) string {
	parts := make([]string, 0, len(path)+1)
	parts = append(parts, c.api)
	for _, p := range path {
		parts = append(parts, strings.Trim(p, "/"))
	}
	joined := strings.Join(parts, "/")
	if n := len(path); n > 0 && strings.HasSuffix(path[n-1], "/") {
		joined += "/"
	}
	return joined
}

func (c *HTTPClient) newRequest(ctx context.Context, method, target, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return req, nil
}

func (c *HTTPClient) jsonRequest(ctx context.Context, method, target, token string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, target, token, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON body into out (when out is non-nil).
func (c *HTTPClient) do(req *http.Request, out any) error {
	return c.send(c.httpclient, req, out)
}

func (c *HTTPClient) send(hc *http.Client, req *http.Request, out any) error {
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug(req.Context(), "request failed", "method", req.Method, "url", req.URL.Path, "error", err)
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, ctxErr)
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(req.Context(), "request done",
		"method", req.Method, "url", req.URL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteError{StatusCode: resp.StatusCode, Detail: parseDetail(body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response (status code = %d): %w", resp.StatusCode, err)
	}
	return nil
}

func (c *HTTPClient) Token(ctx context.Context, username, password string) (models.Tokens, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, c.apipath("token"), "", strings.NewReader(form.Encode()))
	if err != nil {
		return models.Tokens{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out models.Tokens
	if err := c.do(req, &out); err != nil {
		return models.Tokens{}, err
	}
	if out.AccessToken == "" {
		return models.Tokens{}, errors.New("token response has no access_token")
	}
	return out, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (models.Profile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.apipath("users", "me"), token, nil)
	if err != nil {
		return models.Profile{}, err
	}

	var out models.Profile
	if err := c.do(req, &out); err != nil {
		return models.Profile{}, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, token string, id int64, upd models.ProfileUpdate) (models.Profile, error) {
	req, err := c.jsonRequest(ctx, http.MethodPut, c.apipath("users", strconv.FormatInt(id, 10)), token, upd)
	if err != nil {
		return models.Profile{}, err
	}

	var out models.Profile
	if err := c.do(req, &out); err != nil {
		return models.Profile{}, err
	}
	return out, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, u models.NewUser) (models.Profile, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, c.apipath("users/"), "", u)
	if err != nil {
		return models.Profile{}, err
	}

	var out models.Profile
	if err := c.do(req, &out); err != nil {
		return models.Profile{}, err
	}
	return out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Upload streams f as the multipart field "file".
func (c *HTTPClient) Upload(ctx context.Context, token string, f models.File) (string, error) {
	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}

	r, w := io.Pipe()
	mw := multipart.NewWriter(w)

	go func() {
		defer src.Close()

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Name)))
		h.Set("Content-Type", f.ContentType)

		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, src)
		}
		if err == nil {
			err = mw.Close()
		}
		w.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, c.apipath("upload/"), token, r)
	if err != nil {
		r.CloseWithError(err)
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		FileURL string `json:"file_url"`
	}
	err = c.send(c.uploads, req, &out)
	r.Close()
	if err != nil {
		return "", err
	}
	if out.FileURL == "" {
		return "", errors.New("upload response has no file_url")
	}
	return out.FileURL, nil
}

func (c *HTTPClient) ListPosts(ctx context.Context, token, username string) ([]models.Post, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.apipath(url.PathEscape(username), "posts/"), token, nil)
	if err != nil {
		return nil, err
	}

	out := []models.Post{}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, token, username string, p models.NewPost) (models.Post, error) {
	if p.Media == nil {
		p.Media = []models.AssetRef{}
	}
	req, err := c.jsonRequest(ctx, http.MethodPost, c.apipath(url.PathEscape(username), "posts/"), token, p)
	if err != nil {
		return models.Post{}, err
	}

	var out models.Post
	if err := c.do(req, &out); err != nil {
		return models.Post{}, err
	}
	return out, nil
}

func (c *HTTPClient) GetPost(ctx context.Context, token string, id int64) (models.Post, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.apipath("posts", strconv.FormatInt(id, 10)), token, nil)
	if err != nil {
		return models.Post{}, err
	}

	var out models.Post
	if err := c.do(req, &out); err != nil {
		return models.Post{}, err
	}
	return out, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodPost, c.apipath("logout"), token, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
