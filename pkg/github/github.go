// Package github implements the host query interface with the GitHub REST API.
// The client is authenticated with GITHUB_TOKEN, GHAUP_GITHUB_TOKEN,
// or a token stored in the OS keyring, and works with GitHub Enterprise Server
// if GITHUB_API_URL points at it.
package github

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v74/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type (
	ListOptions       = github.ListOptions
	Response          = github.Response
	Repository        = github.Repository
	RepositoryTag     = github.RepositoryTag
	RepositoryRelease = github.RepositoryRelease
	RepositoryCommit  = github.RepositoryCommit
	Client            = github.Client
	Timestamp         = github.Timestamp
	ErrorResponse     = github.ErrorResponse
	RateLimitError    = github.RateLimitError
)

const (
	defaultAPIURL    = "https://api.github.com"
	defaultServerURL = "https://github.com"
)

// Endpoint is the GitHub host the client talks to.
type Endpoint struct {
	APIURL    string
	ServerURL string
}

// IsEnterprise returns true if the endpoint is a GitHub Enterprise Server.
func (e *Endpoint) IsEnterprise() bool {
	return strings.TrimSuffix(e.APIURL, "/") != defaultAPIURL
}

// GetEndpoint returns the endpoint from GITHUB_API_URL and GITHUB_SERVER_URL,
// which GitHub Actions sets.
func GetEndpoint() *Endpoint {
	e := &Endpoint{
		APIURL:    os.Getenv("GITHUB_API_URL"),
		ServerURL: os.Getenv("GITHUB_SERVER_URL"),
	}
	if e.APIURL == "" {
		e.APIURL = defaultAPIURL
	}
	if e.ServerURL == "" {
		e.ServerURL = defaultServerURL
	}
	return e
}

func New(ctx context.Context, logE *logrus.Entry, endpoint *Endpoint) (*Client, error) {
	token, err := NewTokenManager().Token(logE)
	if err != nil {
		return nil, err
	}
	client := github.NewClient(getHTTPClientForGitHub(ctx, logE, token))
	if !endpoint.IsEnterprise() {
		return client, nil
	}
	client, err = client.WithEnterpriseURLs(endpoint.APIURL, endpoint.APIURL)
	if err != nil {
		return nil, fmt.Errorf("configure GitHub Enterprise Server URLs: %w", err)
	}
	return client, nil
}

func getHTTPClientForGitHub(ctx context.Context, logE *logrus.Entry, token string) *http.Client {
	if token == "" {
		logE.Debug("no GitHub access token is found, so the GitHub API is called without authentication")
		return http.DefaultClient
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))
}
