package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
)

const (
	DefaultBaseURL = "https://api.github.com"

	// perPage is only a hint; the feed re-sorts and re-limits locally.
	perPage = 50

	maxErrorBody = 512
)

// Client is a thin wrapper around the GitHub REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListUserRepos returns the public repositories of user in API order.
// Every error it returns is a *FetchError.
func (c *Client) ListUserRepos(ctx context.Context, user string) ([]models.Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d",
		c.baseURL, url.PathEscape(user), perPage)

	body, err := c.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return decodeRepos(body)
}

// decodeRepos requires a JSON array of objects. A null body or a null
// element is a decode failure, not an empty listing.
func decodeRepos(body []byte) ([]models.Repo, error) {
	var raw []*models.Repo
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &FetchError{Kind: KindDecode, Err: err}
	}
	if raw == nil {
		return nil, &FetchError{Kind: KindDecode, Err: errors.New("response body is null")}
	}

	repos := make([]models.Repo, len(raw))
	for i, r := range raw {
		if r == nil {
			return nil, &FetchError{Kind: KindDecode, Err: fmt.Errorf("repository %d is null", i)}
		}
		repos[i] = *r
	}
	return repos, nil
}

// --- internal ---

func (c *Client) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "portfolio-feed")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{
			Kind:       KindHTTPStatus,
			StatusCode: resp.StatusCode,
			Body:       string(excerpt),
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: fmt.Errorf("reading response: %w", err)}
	}
	return respBody, nil
}
