package run

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

var workflowPatterns = []string{ //nolint:gochecknoglobals
	".github/workflows/*.yml",
	".github/workflows/*.yaml",
	"action.yml",
	"action.yaml",
	"*/action.yml",
	"*/action.yaml",
	"*/*/action.yml",
	"*/*/action.yaml",
	"*/*/*/action.yml",
	"*/*/*/action.yaml",
}

// ListWorkflows returns workflow files and composite action metadata files in the current directory.
func ListWorkflows(fs afero.Fs) ([]string, error) {
	return globFiles(fs, "", workflowPatterns)
}

func globFiles(fs afero.Fs, dir string, patterns []string) ([]string, error) {
	files := []string{}
	seen := map[string]struct{}{}
	for _, pattern := range patterns {
		matches, err := afero.Glob(fs, filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("look for workflow or composite action files using glob: %w", logerr.WithFields(err, logrus.Fields{
				"pattern": pattern,
			}))
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			files = append(files, match)
		}
	}
	return files, nil
}
