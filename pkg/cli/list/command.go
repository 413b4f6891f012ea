// Package list implements the `ghaup list` command.
package list

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/ghaup/ghaup/pkg/cli/flag"
	"github.com/ghaup/ghaup/pkg/config"
	"github.com/ghaup/ghaup/pkg/controller/list"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

type Flags struct {
	Owner        string
	LineTemplate string
	Include      []string
	Exclude      []string
	Args         []string
}

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

func (r *runner) Command() *cli.Command { //nolint:funlen
	flags := &Flags{}
	return &cli.Command{
		Name:  "list",
		Usage: "List GitHub Actions and reusable workflows",
		Description: `List GitHub Actions and reusable workflows from workflow files.

$ ghaup list

Output format (default CSV):
<FilePath>,<LineNumber>,<ActionName>,<Version>,<Comment>

Filter by owner:
$ ghaup list --owner actions

Custom output format using Go template:
$ ghaup list --line-template "{{.RepoOwner}}/{{.RepoName}}"

Available template fields:
  ActionName - Full action name (e.g., actions/checkout)
  RepoOwner  - Repository owner (e.g., actions)
  RepoName   - Repository name (e.g., checkout)
  Version    - Version/ref (e.g., v4 or commit SHA)
  Comment    - Version comment (e.g., v4.0.0)
  FilePath   - Full file path
  FileName   - Base file name
  LineNumber - Line number in the file
`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return r.action(ctx, flags)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "owner",
				Usage:       "Filter actions by owner",
				Destination: &flags.Owner,
			},
			&cli.StringFlag{
				Name:        "line-template",
				Usage:       "Go text/template format for each line",
				Destination: &flags.LineTemplate,
			},
			&cli.StringSliceFlag{
				Name:        "include",
				Aliases:     []string{"i"},
				Usage:       "A regular expression to include actions",
				Destination: &flags.Include,
			},
			&cli.StringSliceFlag{
				Name:        "exclude",
				Aliases:     []string{"e"},
				Usage:       "A regular expression to exclude actions",
				Destination: &flags.Exclude,
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

	includes, err := compilePatterns(flags.Include)
	if err != nil {
		return fmt.Errorf("compile include patterns: %w", err)
	}
	excludes, err := compilePatterns(flags.Exclude)
	if err != nil {
		return fmt.Errorf("compile exclude patterns: %w", err)
	}

	fs := afero.NewOsFs()
	cfgFilePath, cfg, err := readConfig(fs, r.globalFlags.Config)
	if err != nil {
		return err
	}

	param := &list.Param{
		WorkflowFilePaths: flags.Args,
		ConfigFilePath:    cfgFilePath,
		Owner:             flags.Owner,
		LineTemplate:      flags.LineTemplate,
		Includes:          includes,
		Excludes:          excludes,
	}
	return list.New(fs, cfg, param, os.Stdout).List(ctx, r.logE) //nolint:wrapcheck
}

func readConfig(fs afero.Fs, configFilePath string) (string, *config.Config, error) {
	cfgPath, err := config.NewFinder(fs).Find(configFilePath)
	if err != nil {
		return "", nil, fmt.Errorf("find a configuration file: %w", err)
	}
	cfg := &config.Config{}
	if err := config.NewReader(fs).Read(cfg, cfgPath); err != nil {
		return "", nil, fmt.Errorf("read a configuration file: %w", err)
	}
	return cfgPath, cfg, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	result := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile regex %q: %w", pattern, err)
		}
		result = append(result, re)
	}
	return result, nil
}
