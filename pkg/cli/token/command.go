// Package token implements the `ghaup token` command.
// It manages a GitHub access token in the secret store of the OS
// (Windows Credential Manager, macOS Keychain, or GNOME Keyring).
// The stored token is used if GHAUP_KEYRING_ENABLED is true.
package token

import (
	"context"
	"os"

	"github.com/ghaup/ghaup/pkg/cli/flag"
	"github.com/ghaup/ghaup/pkg/controller/token"
	"github.com/ghaup/ghaup/pkg/github"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

type runner struct {
	logE        *logrus.Entry
	globalFlags *flag.GlobalFlags
}

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE:        logE,
		globalFlags: globalFlags,
	}
	return r.Command()
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage GitHub access token",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Set GitHub access token",
				Description: `Set GitHub access token to the secret store.
The token is read from stdin.

$ echo "$GITHUB_TOKEN" | ghaup token set
`,
				Action: func(_ context.Context, _ *cli.Command) error {
					r.globalFlags.Apply(r.logE)
					return r.controller().Set() //nolint:wrapcheck
				},
			},
			{
				Name:  "rm",
				Usage: "Remove GitHub access token",
				Action: func(_ context.Context, _ *cli.Command) error {
					r.globalFlags.Apply(r.logE)
					return r.controller().Remove() //nolint:wrapcheck
				},
			},
		},
	}
}

func (r *runner) controller() *token.Controller {
	return token.New(github.NewTokenManager(), os.Stdin)
}
