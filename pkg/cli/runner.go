// Package cli builds the command line interface of ghaup.
package cli

import (
	"context"

	"github.com/ghaup/ghaup/pkg/cli/flag"
	"github.com/ghaup/ghaup/pkg/cli/initcmd"
	"github.com/ghaup/ghaup/pkg/cli/list"
	"github.com/ghaup/ghaup/pkg/cli/run"
	"github.com/ghaup/ghaup/pkg/cli/token"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/go-stdutil"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, logE *logrus.Entry, ldFlags *stdutil.LDFlags, args ...string) error {
	globalFlags := &flag.GlobalFlags{}
	cmd := &cli.Command{
		Name:                  "ghaup",
		Usage:                 "Update GitHub Actions versions. https://github.com/ghaup/ghaup",
		Version:               ldFlags.Version + " (" + ldFlags.Commit + ")",
		Flags:                 globalFlags.Flags(),
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			initcmd.New(logE, globalFlags),
			run.New(logE, globalFlags, ldFlags.Version),
			list.New(logE, globalFlags),
			token.New(logE, globalFlags),
			newVersionCommand(),
		},
	}
	return cmd.Run(ctx, args) //nolint:wrapcheck
}
