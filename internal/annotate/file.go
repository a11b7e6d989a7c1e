package annotate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Result reports what happened to a target file
type Result int

const (
	Skipped Result = iota
	Annotated
)

func (r Result) String() string {
	if r == Annotated {
		return "annotated"
	}
	return "skipped"
}

// File writes block into the file at path, replacing any block from an earlier
// run. A missing file is skipped and never created. The block must be rendered
// with the leader SyntaxFor(path) returns.
func File(path, block string) (Result, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Skipped, nil
	}
	if err != nil {
		return Skipped, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Skipped, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated := Apply(string(content), block, SyntaxFor(path))

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return Skipped, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return Annotated, nil
}
