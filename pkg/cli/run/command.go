// Package run implements the `ghaup run` command.
package run

import (
	"context"
	"fmt"
	"os"

	"github.com/ghaup/ghaup/pkg/cli/flag"
	"github.com/ghaup/ghaup/pkg/config"
	"github.com/ghaup/ghaup/pkg/controller/run"
	"github.com/ghaup/ghaup/pkg/github"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

type Flags struct {
	UpdateVersionWith string
	ReleaseTypes      []string
	Ignore            string
	Check             bool
	Fix               bool
	Format            string
	SummaryFile       string
	Concurrency       int
	Args              []string
}

type runner struct {
	logE        *logrus.Entry
	globalFlags *flag.GlobalFlags
	version     string
}

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags, version string) *cli.Command {
	r := &runner{
		logE:        logE,
		globalFlags: globalFlags,
		version:     version,
	}
	return r.Command()
}

func (r *runner) Command() *cli.Command { //nolint:funlen
	flags := &Flags{}
	return &cli.Command{
		Name:  "run",
		Usage: "Update GitHub Actions versions",
		Description: `If no argument is passed, ghaup searches GitHub Actions workflow files from .github/workflows
and composite actions (action.yaml).

$ ghaup run

You can also pass workflow file paths as arguments.

$ ghaup run .github/actions/foo/action.yaml .github/actions/bar/action.yaml

With --check, files aren't updated and ghaup exits with a non-zero status code if actions can be updated.
`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return r.action(ctx, flags)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "update-version-with",
				Usage:       "release-tag, release-commit-sha, or default-branch-sha",
				Sources:     cli.EnvVars("GHAUP_UPDATE_VERSION_WITH"),
				Destination: &flags.UpdateVersionWith,
			},
			&cli.StringSliceFlag{
				Name:        "release-types",
				Usage:       "Allowed update levels (major, minor, patch)",
				Sources:     cli.EnvVars("GHAUP_RELEASE_TYPES"),
				Destination: &flags.ReleaseTypes,
			},
			&cli.StringFlag{
				Name:        "ignore",
				Usage:       `Actions which aren't updated. A JSON array or comma separated values of <action> or <action>@<ref>`,
				Sources:     cli.EnvVars("GHAUP_IGNORE"),
				Destination: &flags.Ignore,
			},
			&cli.BoolFlag{
				Name:        "check",
				Usage:       "Exit with a non-zero status code if actions can be updated. If this is true, files aren't updated",
				Destination: &flags.Check,
			},
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "Update files. By default, this is true",
				Value:       true,
				Destination: &flags.Fix,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "Output format (text, json, sarif, markdown)",
				Value:       run.FormatText,
				Sources:     cli.EnvVars("GHAUP_FORMAT"),
				Destination: &flags.Format,
			},
			&cli.StringFlag{
				Name:        "summary-file",
				Usage:       "A file which the markdown report is appended to",
				Sources:     cli.EnvVars("GHAUP_SUMMARY_FILE", "GITHUB_STEP_SUMMARY"),
				Destination: &flags.SummaryFile,
			},
			&cli.IntFlag{
				Name:        "concurrency",
				Usage:       "The number of files and actions processed in parallel",
				Value:       8, //nolint:mnd
				Sources:     cli.EnvVars("GHAUP_CONCURRENCY"),
				Destination: &flags.Concurrency,
			},
		},
		Arguments: []cli.Argument{
			&cli.StringArgs{
				Name:        "files",
				Max:         -1,
				Destination: &flags.Args,
			},
		},
	}
}

func (r *runner) action(ctx context.Context, flags *Flags) error {
	r.globalFlags.Apply(r.logE)
	ignore, err := config.ParseIgnore(flags.Ignore)
	if err != nil {
		return fmt.Errorf("parse --ignore: %w", err)
	}
	endpoint := github.GetEndpoint()
	gh, err := github.New(ctx, r.logE, endpoint)
	if err != nil {
		return fmt.Errorf("create a GitHub client: %w", err)
	}
	fs := afero.NewOsFs()
	param := &run.ParamRun{
		WorkflowFilePaths: flags.Args,
		ConfigFilePath:    r.globalFlags.Config,
		UpdateVersionWith: flags.UpdateVersionWith,
		ReleaseTypes:      flags.ReleaseTypes,
		Ignore:            ignore,
		Check:             flags.Check,
		Fix:               flags.Fix,
		Format:            flags.Format,
		SummaryFile:       flags.SummaryFile,
		Concurrency:       flags.Concurrency,
		ServerURL:         endpoint.ServerURL,
		ProgramVersion:    r.version,
		Stdout:            os.Stdout,
		Stderr:            os.Stderr,
	}
	ctrl := run.New(github.NewHost(gh.Repositories), fs, config.NewFinder(fs), config.NewReader(fs), param)
	return ctrl.Run(ctx, r.logE) //nolint:wrapcheck
}
