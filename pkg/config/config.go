package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/fetch"
	"github.com/ghaup/ghaup/pkg/update"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Config struct {
	UpdateVersionWith string          `json:"update_version_with,omitempty" yaml:"update_version_with" jsonschema:"enum=release-tag,enum=release-commit-sha,enum=default-branch-sha,description=What references are updated to. The default is release-tag"`
	ReleaseTypes      []string        `json:"release_types,omitempty" yaml:"release_types" jsonschema:"description=Allowed update levels (major, minor, patch). By default all levels are allowed"`
	Ignore            []string        `json:"ignore,omitempty" jsonschema:"description=Actions which ghaup doesn't update. An entry is either <action> or <action>@<ref>"`
	IgnoreActions     []*IgnoreAction `json:"ignore_actions,omitempty" yaml:"ignore_actions" jsonschema:"description=Actions which ghaup doesn't update, matched by patterns"`
	Files             []*File         `json:"files,omitempty" jsonschema:"description=Target files. If files are passed via positional command line arguments, this is ignored"`
}

type File struct {
	Pattern string `json:"pattern" jsonschema:"description=A glob pattern of target files. The pattern is relative to the configuration file"`
}

const (
	formatFixedString = "fixed_string"
	formatGlob        = "glob"
	formatRegexp      = "regexp"
)

func (f *File) Init() error {
	if f.Pattern == "" {
		return errors.New("pattern is required")
	}
	_, err := path.Match(f.Pattern, "a")
	if err != nil {
		return fmt.Errorf("parse pattern as a glob: %w", err)
	}
	return nil
}

type IgnoreAction struct {
	Name       string `json:"name"`
	Ref        string `json:"ref,omitempty"`
	NameFormat string `json:"name_format,omitempty" yaml:"name_format" jsonschema:"enum=fixed_string,enum=glob,enum=regexp,description=The default is fixed_string"`
	RefFormat  string `json:"ref_format,omitempty" yaml:"ref_format" jsonschema:"enum=fixed_string,enum=glob,enum=regexp,description=The default is fixed_string"`
	nameRegexp *regexp.Regexp
	refRegexp  *regexp.Regexp
}

func initFormat(pattern, format string) (*regexp.Regexp, error) {
	switch format {
	case formatFixedString:
		return nil, nil //nolint:nilnil
	case formatGlob:
		if _, err := path.Match(pattern, "a"); err != nil {
			return nil, fmt.Errorf("parse as a glob: %w", err)
		}
		return nil, nil //nolint:nilnil
	case formatRegexp:
		r, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile as a regular expression: %w", err)
		}
		return r, nil
	default:
		return nil, errors.New("format must be fixed_string, glob, or regexp")
	}
}

func (ia *IgnoreAction) initName() error {
	if ia.Name == "" {
		return errors.New("name is required")
	}
	if ia.NameFormat == "" {
		ia.NameFormat = formatFixedString
	}
	var err error
	ia.nameRegexp, err = initFormat(ia.Name, ia.NameFormat)
	return err
}

func (ia *IgnoreAction) initRef() error {
	if ia.Ref == "" {
		return nil
	}
	if ia.RefFormat == "" {
		ia.RefFormat = formatFixedString
	}
	var err error
	ia.refRegexp, err = initFormat(ia.Ref, ia.RefFormat)
	return err
}

func (ia *IgnoreAction) Init() error {
	if err := ia.initName(); err != nil {
		return err
	}
	if err := ia.initRef(); err != nil {
		return err
	}
	return nil
}

func match(value, pattern, format string, r *regexp.Regexp) (bool, error) {
	switch format {
	case formatFixedString:
		return value == pattern, nil
	case formatGlob:
		f, err := path.Match(pattern, value)
		if err != nil {
			return false, fmt.Errorf("match as a glob: %w", err)
		}
		return f, nil
	case formatRegexp:
		return r.MatchString(value), nil
	default:
		return false, errors.New("unexpected format: " + format)
	}
}

func (ia *IgnoreAction) Match(name, ref string) (bool, error) {
	f, err := match(name, ia.Name, ia.NameFormat, ia.nameRegexp)
	if err != nil {
		return false, fmt.Errorf("match name: %w", err)
	}
	if !f {
		return false, nil
	}

	if ia.Ref == "" {
		return true, nil
	}

	f, err = match(ref, ia.Ref, ia.RefFormat, ia.refRegexp)
	if err != nil {
		return false, fmt.Errorf("match ref: %w", err)
	}
	return f, nil
}

// Ignorer ignores references listed in `ignore` or matching `ignore_actions`.
type Ignorer struct {
	set     update.IgnoreSet
	actions []*IgnoreAction
}

// NewIgnorer returns an Ignorer. extra is added to the `ignore` entries of cfg.
func NewIgnorer(cfg *Config, extra []string) *Ignorer {
	entries := make([]string, 0, len(cfg.Ignore)+len(extra))
	entries = append(entries, cfg.Ignore...)
	entries = append(entries, extra...)
	return &Ignorer{
		set:     update.NewIgnoreSet(entries),
		actions: cfg.IgnoreActions,
	}
}

func (ig *Ignorer) Ignore(ref *action.Reference) bool {
	if ig.set.Ignore(ref) {
		return true
	}
	for _, ia := range ig.actions {
		// patterns are validated by Init, so Match never fails
		if f, err := ia.Match(string(ref.Identity), ref.Ref); err == nil && f {
			return true
		}
	}
	return false
}

// ParseIgnore parses a list of ignored actions given by a flag or an environment variable.
// The list is either a JSON array (`["actions/checkout@v2"]`) or comma separated values.
func ParseIgnore(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "[") {
		arr := []string{}
		if err := json.Unmarshal([]byte(s), &arr); err != nil {
			return nil, fmt.Errorf("parse the ignore list as a JSON array: %w", err)
		}
		return arr, nil
	}
	arr := strings.Split(s, ",")
	for i, a := range arr {
		arr[i] = strings.TrimSpace(a)
	}
	return arr, nil
}

func getConfigPath(fs afero.Fs) (string, error) {
	for _, path := range []string{".ghaup.yaml", ".github/ghaup.yaml", ".ghaup.yml", ".github/ghaup.yml"} {
		f, err := afero.Exists(fs, path)
		if err != nil {
			return "", fmt.Errorf("check if %s exists: %w", path, err)
		}
		if f {
			return path, nil
		}
	}
	return "", nil
}

type Finder struct {
	fs afero.Fs
}

func NewFinder(fs afero.Fs) *Finder {
	return &Finder{fs: fs}
}

func (f *Finder) Find(configFilePath string) (string, error) {
	if configFilePath != "" {
		return configFilePath, nil
	}
	p, err := getConfigPath(f.fs)
	if err != nil {
		return "", err
	}
	return p, nil
}

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

func (r *Reader) Read(cfg *Config, configFilePath string) error {
	if configFilePath == "" {
		return nil
	}
	f, err := r.fs.Open(configFilePath)
	if err != nil {
		return fmt.Errorf("open a configuration file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode a configuration file as YAML: %w", err)
	}
	return cfg.Init()
}

// Init validates the configuration and compiles patterns.
func (c *Config) Init() error {
	if _, err := fetch.ParseStrategy(c.UpdateVersionWith); err != nil {
		return fmt.Errorf("validate update_version_with: %w", err)
	}
	if _, err := update.ParseReleaseTypes(c.ReleaseTypes); err != nil {
		return fmt.Errorf("validate release_types: %w", err)
	}
	for _, file := range c.Files {
		if err := file.Init(); err != nil {
			return fmt.Errorf("initialize file: %w", err)
		}
	}
	for _, ia := range c.IgnoreActions {
		if err := ia.Init(); err != nil {
			return fmt.Errorf("initialize ignore_action: %w", err)
		}
	}
	return nil
}
