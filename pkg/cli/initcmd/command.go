// Package initcmd implements the `ghaup init` command.
package initcmd

import (
	"context"

	"github.com/ghaup/ghaup/pkg/cli/flag"
	"github.com/ghaup/ghaup/pkg/controller/initcmd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const defaultConfigFilePath = ".ghaup.yaml"

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
	var args []string
	return &cli.Command{
		Name:  "init",
		Usage: "Create .ghaup.yaml if it doesn't exist",
		Description: `Create .ghaup.yaml if it doesn't exist

$ ghaup init

You can also pass configuration file path.

e.g.

$ ghaup init .github/ghaup.yaml
`,
		Action: func(_ context.Context, _ *cli.Command) error {
			return r.action(args)
		},
		Arguments: []cli.Argument{
			&cli.StringArgs{
				Name:        "config",
				Max:         1,
				Destination: &args,
			},
		},
	}
}

func (r *runner) action(args []string) error {
	r.globalFlags.Apply(r.logE)
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	configFilePath := r.globalFlags.ConfigFile(arg)
	if configFilePath == "" {
		configFilePath = defaultConfigFilePath
	}
	return initcmd.New(afero.NewOsFs()).Init(configFilePath) //nolint:wrapcheck
}
