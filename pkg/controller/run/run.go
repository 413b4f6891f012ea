package run

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ghaup/ghaup/pkg/config"
	"github.com/ghaup/ghaup/pkg/fetch"
	"github.com/ghaup/ghaup/pkg/report"
	"github.com/ghaup/ghaup/pkg/update"
	"github.com/sirupsen/logrus"
)

// ErrUpdatesFound is returned by Run with --check if some actions can be updated.
var ErrUpdatesFound = errors.New("actions can be updated")

type policy struct {
	strategy     fetch.Strategy
	releaseTypes update.ReleaseTypes
	ignorer      update.Ignorer
}

func (c *Controller) Run(ctx context.Context, logE *logrus.Entry) error {
	if err := validateFormat(c.param.Format); err != nil {
		return err
	}
	if err := c.readConfig(); err != nil {
		return err
	}
	p, err := c.policy()
	if err != nil {
		return err
	}
	logE = logE.WithFields(logrus.Fields{
		"update_version_with": p.strategy,
		"release_types":       p.releaseTypes.String(),
	})

	files, err := SearchFiles(c.fs, c.param.WorkflowFilePaths, c.cfg, c.param.ConfigFilePath)
	if err != nil {
		return fmt.Errorf("search target files: %w", err)
	}
	if len(files) == 0 {
		logE.Info("no target file is found")
	}

	agg := report.NewAggregator()
	states, err := c.scanFiles(ctx, logE, files, agg)
	if err != nil {
		return err
	}
	fetcher := fetch.New(c.host, p.strategy, fetch.NewCache())
	decisions, err := c.decide(ctx, logE, fetcher, p, states, agg)
	if err != nil {
		return err
	}
	if err := c.rewriteFiles(ctx, logE, states, decisions, agg); err != nil {
		return err
	}

	summary := agg.Summary()
	if summary.Changed && c.param.Fix && !c.param.Check {
		if err := c.writeFiles(logE, states, summary); err != nil {
			return err
		}
		logE.WithField("actions", report.Identities(summary)).Info("updated actions")
	}
	if err := c.output(logE, summary, p.strategy); err != nil {
		return err
	}
	if err := c.appendSummaryFile(summary, p.strategy); err != nil {
		return err
	}
	if c.param.Check && summary.Changed {
		return ErrUpdatesFound
	}
	return nil
}

func (c *Controller) readConfig() error {
	p, err := c.cfgFinder.Find(c.param.ConfigFilePath)
	if err != nil {
		return fmt.Errorf("find a configuration file: %w", err)
	}
	c.param.ConfigFilePath = p
	cfg := &config.Config{}
	if err := c.cfgReader.Read(cfg, c.param.ConfigFilePath); err != nil {
		return fmt.Errorf("read a configuration file: %w", err)
	}
	c.cfg = cfg
	return nil
}

// policy merges command line options into the configuration file.
// Options given by command line take precedence.
func (c *Controller) policy() (*policy, error) {
	s := c.param.UpdateVersionWith
	if s == "" {
		s = c.cfg.UpdateVersionWith
	}
	strategy, err := fetch.ParseStrategy(s)
	if err != nil {
		return nil, fmt.Errorf("parse update_version_with: %w", err)
	}
	types := c.param.ReleaseTypes
	if len(types) == 0 {
		types = c.cfg.ReleaseTypes
	}
	releaseTypes, err := update.ParseReleaseTypes(types)
	if err != nil {
		return nil, fmt.Errorf("parse release_types: %w", err)
	}
	return &policy{
		strategy:     strategy,
		releaseTypes: releaseTypes,
		ignorer:      config.NewIgnorer(c.cfg, c.param.Ignore),
	}, nil
}

func validateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatSARIF, FormatMarkdown:
		return nil
	}
	return fmt.Errorf("format must be text, json, sarif, or markdown: %s", format)
}

// output writes the result to stdout, or to stderr for the text format.
// Warnings are logged unless they are written as text.
func (c *Controller) output(logE *logrus.Entry, summary *report.Summary, strategy fetch.Strategy) error {
	if c.param.Format != FormatText {
		for _, w := range summary.Warnings {
			logE.Warn(w.String())
		}
	}
	switch c.param.Format {
	case FormatJSON:
		if err := report.WriteJSON(c.param.Stdout, summary); err != nil {
			return fmt.Errorf("output the result as JSON: %w", err)
		}
	case FormatSARIF:
		if err := report.WriteSARIF(c.param.Stdout, summary, c.param.ProgramVersion); err != nil {
			return fmt.Errorf("output the result as SARIF: %w", err)
		}
	case FormatMarkdown:
		fmt.Fprint(c.param.Stdout, report.Markdown(summary, strategy, c.param.ServerURL))
	default:
		report.NewTextWriter(c.param.Stderr).Write(summary)
	}
	return nil
}

func (c *Controller) appendSummaryFile(summary *report.Summary, strategy fetch.Strategy) error {
	if c.param.SummaryFile == "" || !summary.Changed {
		return nil
	}
	f, err := c.fs.OpenFile(c.param.SummaryFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:mnd
	if err != nil {
		return fmt.Errorf("open a summary file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(report.Markdown(summary, strategy, c.param.ServerURL)); err != nil {
		return fmt.Errorf("write a summary file: %w", err)
	}
	return nil
}
