// Package run implements `ghaup run`.
// It discovers workflow files, scans action references, decides updates
// per unique action reference in parallel and rewrites files in place.
// Reports (text, JSON, SARIF and markdown) are written at the end of a run.
package run

import (
	"io"

	"github.com/ghaup/ghaup/pkg/config"
	"github.com/ghaup/ghaup/pkg/fetch"
	"github.com/spf13/afero"
)

type Controller struct {
	host      fetch.Host
	fs        afero.Fs
	cfg       *config.Config
	param     *ParamRun
	cfgFinder ConfigFinder
	cfgReader ConfigReader
}

type ConfigFinder interface {
	Find(configFilePath string) (string, error)
}

type ConfigReader interface {
	Read(cfg *config.Config, configFilePath string) error
}

const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatSARIF    = "sarif"
	FormatMarkdown = "markdown"

	defaultConcurrency = 8
)

type ParamRun struct {
	WorkflowFilePaths []string
	ConfigFilePath    string
	UpdateVersionWith string
	ReleaseTypes      []string
	Ignore            []string
	Check             bool
	Fix               bool
	Format            string
	// SummaryFile is a file which the markdown report is appended to.
	// If it's empty, GITHUB_STEP_SUMMARY is used.
	SummaryFile    string
	Concurrency    int
	ServerURL      string
	ProgramVersion string
	Stdout         io.Writer
	Stderr         io.Writer
}

func New(host fetch.Host, fs afero.Fs, cfgFinder ConfigFinder, cfgReader ConfigReader, param *ParamRun) *Controller {
	if param.Concurrency <= 0 {
		param.Concurrency = defaultConcurrency
	}
	if param.Format == "" {
		param.Format = FormatText
	}
	if param.Stdout == nil {
		param.Stdout = io.Discard
	}
	if param.Stderr == nil {
		param.Stderr = io.Discard
	}
	return &Controller{
		host:      host,
		fs:        fs,
		cfgFinder: cfgFinder,
		cfgReader: cfgReader,
		param:     param,
		cfg:       &config.Config{},
	}
}
