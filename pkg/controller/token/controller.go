// Package token implements `ghaup token`.
// A GitHub access token is stored in the secret store of the OS,
// so it can be used without environment variables.
package token

import (
	"fmt"
	"io"
)

type Controller struct {
	tokenManager TokenManager
	stdin        io.Reader
}

type TokenManager interface {
	ReadToken(r io.Reader) error
	RemoveToken() error
}

func New(tokenManager TokenManager, stdin io.Reader) *Controller {
	return &Controller{
		tokenManager: tokenManager,
		stdin:        stdin,
	}
}

// Set reads a token from the first line of stdin and stores it.
func (c *Controller) Set() error {
	if err := c.tokenManager.ReadToken(c.stdin); err != nil {
		return fmt.Errorf("set a GitHub access token: %w", err)
	}
	return nil
}

func (c *Controller) Remove() error {
	if err := c.tokenManager.RemoveToken(); err != nil {
		return fmt.Errorf("remove a GitHub access token: %w", err)
	}
	return nil
}
