package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ghaup/ghaup/pkg/warning"
)

// SARIF 2.1.0 objects used by the report.
// https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html
type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri,omitempty"`
	Version        string      `json:"version,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

const (
	ruleOutdatedAction = "outdated-action"
	ruleWarningPrefix  = "warning/"
)

// WriteSARIF writes updates as SARIF results of the level "warning" and
// warnings of the run as results of the level "note".
func WriteSARIF(w io.Writer, summary *Summary, programVersion string) error {
	rules := []sarifRule{
		{
			ID: ruleOutdatedAction,
			ShortDescription: sarifMessage{
				Text: "GitHub Action has a newer version",
			},
		},
	}
	for _, kind := range []warning.Kind{
		warning.KindNonSemver, warning.KindUnresolved, warning.KindNoReleases,
		warning.KindInvalidYAML, warning.KindRewriteDrift, warning.KindUnsupported,
	} {
		rules = append(rules, sarifRule{
			ID: ruleWarningPrefix + string(kind),
			ShortDescription: sarifMessage{
				Text: "ghaup warning: " + string(kind),
			},
		})
	}
	log := sarifLog{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "ghaup",
						InformationURI: "https://github.com/ghaup/ghaup",
						Version:        programVersion,
						Rules:          rules,
					},
				},
				Results: sarifResults(summary),
			},
		},
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(log); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

func sarifResults(summary *Summary) []sarifResult {
	results := make([]sarifResult, 0, len(summary.Changes)+len(summary.Warnings))
	for _, change := range summary.Changes {
		msg := fmt.Sprintf("%s@%s can be updated to %s", change.Identity, change.OldRef, change.NewRef)
		if change.Annotation != "" {
			msg += " # " + change.Annotation
		}
		results = append(results, sarifResult{
			RuleID:  ruleOutdatedAction,
			Level:   "warning",
			Message: sarifMessage{Text: msg},
			Locations: []sarifLocation{
				sarifFileLocation(change.File, change.Line),
			},
		})
	}
	for _, w := range summary.Warnings {
		result := sarifResult{
			RuleID:  ruleWarningPrefix + string(w.Kind),
			Level:   "note",
			Message: sarifMessage{Text: w.String()},
		}
		if w.File != "" {
			result.Locations = []sarifLocation{sarifFileLocation(w.File, 0)}
		}
		results = append(results, result)
	}
	return results
}

func sarifFileLocation(file string, line int) sarifLocation {
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI: file,
			},
		},
	}
	if line > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: line}
	}
	return loc
}
