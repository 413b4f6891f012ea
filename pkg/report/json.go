package report

import (
	"encoding/json"
	"fmt"
	"io"
)

func WriteJSON(w io.Writer, summary *Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("encode the result as JSON: %w", err)
	}
	return nil
}
