package schemanote

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Summary collects the blocks of one annotation run, each under the name of
// its model
type Summary struct {
	sb     strings.Builder
	models []string
}

// Add appends a model's block
func (s *Summary) Add(model, block string) {
	s.models = append(s.models, model)
	s.sb.WriteString(model)
	s.sb.WriteString("\n\n")
	s.sb.WriteString(block)
}

// Models returns the annotated models in run order
func (s *Summary) Models() []string {
	return s.models
}

func (s *Summary) String() string {
	return s.sb.String()
}

// WriteFile replaces path with the summary, creating parent directories
func (s *Summary) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(s.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}
