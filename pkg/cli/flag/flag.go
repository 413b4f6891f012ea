// Package flag defines flags shared by all subcommands.
package flag

import (
	"fmt"

	"github.com/ghaup/ghaup/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

type GlobalFlags struct {
	LogLevel string
	Config   string
}

func (gf *GlobalFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (trace, debug, info, warn, error)",
			Sources:     cli.EnvVars("GHAUP_LOG_LEVEL"),
			Destination: &gf.LogLevel,
			Validator:   validateLogLevel,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "configuration file path. By default .ghaup.yaml, .github/ghaup.yaml, .ghaup.yml, or .github/ghaup.yml is used",
			Sources:     cli.EnvVars("GHAUP_CONFIG"),
			Destination: &gf.Config,
		},
	}
}

// Apply sets the log level to logE.
func (gf *GlobalFlags) Apply(logE *logrus.Entry) {
	log.SetLevel(gf.LogLevel, logE)
}

// ConfigFile returns arg if it isn't empty, otherwise the path given by --config.
func (gf *GlobalFlags) ConfigFile(arg string) string {
	if arg != "" {
		return arg
	}
	return gf.Config
}

func validateLogLevel(level string) error {
	if level == "" {
		return nil
	}
	if _, err := logrus.ParseLevel(level); err != nil {
		return fmt.Errorf("log level must be one of trace, debug, info, warn, error, fatal, and panic: %w", err)
	}
	return nil
}
