package initcmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

const (
	templateConfig = `# yaml-language-server: $schema=https://raw.githubusercontent.com/ghaup/ghaup/refs/heads/main/json-schema/ghaup.json
# ghaup - https://github.com/ghaup/ghaup

# release-tag (default), release-commit-sha, or default-branch-sha
# update_version_with: release-tag

# By default all update levels are allowed.
# release_types:
#   - minor
#   - patch

# files:
#   - pattern: .github/workflows/*.yaml
#   - pattern: action.yaml

ignore:
# - actions/checkout@v2

ignore_actions:
# - name: actions/.*
#   name_format: regexp
# - name: my-org/*
#   name_format: glob
#   ref: main
`
	filePermission os.FileMode = 0o644
)

// Init creates a configuration file from the template.
// An existing file is left as is.
func (c *Controller) Init(configFilePath string) error {
	f, err := afero.Exists(c.fs, configFilePath)
	if err != nil {
		return fmt.Errorf("check if a configuration file exists: %w", err)
	}
	if f {
		return nil
	}
	if err := afero.WriteFile(c.fs, configFilePath, []byte(templateConfig), filePermission); err != nil {
		return fmt.Errorf("create a configuration file: %w", err)
	}
	return nil
}
