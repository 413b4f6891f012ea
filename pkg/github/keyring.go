package github

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
)

const (
	keyService = "ghaup"
	keyUser    = "GITHUB_TOKEN"
)

// SecretStore is the secret store of the OS.
type SecretStore interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
	Delete(service, user string) error
}

type osSecretStore struct{}

func (osSecretStore) Get(service, user string) (string, error) {
	return keyring.Get(service, user) //nolint:wrapcheck
}

func (osSecretStore) Set(service, user, password string) error {
	return keyring.Set(service, user, password) //nolint:wrapcheck
}

func (osSecretStore) Delete(service, user string) error {
	return keyring.Delete(service, user) //nolint:wrapcheck
}

// TokenManager resolves, stores, and removes the GitHub access token of ghaup.
type TokenManager struct {
	store  SecretStore
	getEnv func(string) string
}

func NewTokenManager() *TokenManager {
	return &TokenManager{
		store:  osSecretStore{},
		getEnv: os.Getenv,
	}
}

// Token returns a GitHub access token.
// GHAUP_GITHUB_TOKEN and GITHUB_TOKEN are looked up in order,
// then the secret store if GHAUP_KEYRING_ENABLED is true.
// It returns an empty string if no token is found.
func (tm *TokenManager) Token(logE *logrus.Entry) (string, error) {
	for _, name := range []string{"GHAUP_GITHUB_TOKEN", "GITHUB_TOKEN"} {
		if token := tm.getEnv(name); token != "" {
			logE.WithField("env", name).Debug("use a GitHub access token from the environment variable")
			return token, nil
		}
	}
	if tm.getEnv("GHAUP_KEYRING_ENABLED") != "true" {
		return "", nil
	}
	logE.Debug("getting a GitHub access token from the secret store")
	token, err := tm.store.Get(keyService, keyUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			logE.Debug("no GitHub access token is stored in the secret store")
			return "", nil
		}
		return "", fmt.Errorf("get a GitHub access token from the secret store: %w", err)
	}
	return token, nil
}

// ReadToken reads a token from the first line of r and stores it.
func (tm *TokenManager) ReadToken(r io.Reader) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read a GitHub access token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return errors.New("a GitHub access token is empty")
	}
	if err := tm.store.Set(keyService, keyUser, token); err != nil {
		return fmt.Errorf("set a GitHub access token to the secret store: %w", err)
	}
	return nil
}

// RemoveToken removes the stored token. It's not an error if no token is stored.
func (tm *TokenManager) RemoveToken() error {
	if err := tm.store.Delete(keyService, keyUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("remove a GitHub access token from the secret store: %w", err)
	}
	return nil
}
