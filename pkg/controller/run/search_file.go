package run

import (
	"fmt"
	"path/filepath"

	"github.com/ghaup/ghaup/pkg/config"
	"github.com/spf13/afero"
)

// SearchFiles returns target files.
// Files passed as arguments have the highest priority, then `files` of the configuration file.
// Otherwise workflow files and composite actions are searched.
func SearchFiles(fs afero.Fs, args []string, cfg *config.Config, configFilePath string) ([]string, error) {
	if len(args) != 0 {
		return args, nil
	}
	if cfg != nil && len(cfg.Files) > 0 {
		patterns := make([]string, len(cfg.Files))
		for i, file := range cfg.Files {
			patterns[i] = file.Pattern
		}
		files, err := globFiles(fs, filepath.Dir(configFilePath), patterns)
		if err != nil {
			return nil, fmt.Errorf("search target files by the configuration: %w", err)
		}
		return files, nil
	}
	files, err := ListWorkflows(fs)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	return files, nil
}
