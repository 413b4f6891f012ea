// Package list implements `ghaup list`.
// It prints action references found in workflow files,
// with filters by owner and regular expressions and a custom output format.
package list

import (
	"io"
	"regexp"

	"github.com/ghaup/ghaup/pkg/config"
	"github.com/spf13/afero"
)

type Controller struct {
	fs     afero.Fs
	cfg    *config.Config
	param  *Param
	stdout io.Writer
}

type Param struct {
	WorkflowFilePaths []string
	ConfigFilePath    string
	Owner             string
	LineTemplate      string
	Includes          []*regexp.Regexp
	Excludes          []*regexp.Regexp
}

func New(fs afero.Fs, cfg *config.Config, param *Param, stdout io.Writer) *Controller {
	return &Controller{
		fs:     fs,
		cfg:    cfg,
		param:  param,
		stdout: stdout,
	}
}
