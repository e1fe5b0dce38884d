package converter

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// WriteReport saves r as YAML at path.
func WriteReport(path string, r *BatchResult) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
