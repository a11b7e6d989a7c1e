// Package annotate inserts schema comment blocks into source and fixture files
// and replaces the block left by a previous run.
package annotate

import (
	"path/filepath"
	"strings"
)

// Prefix opens the header line of every block
const Prefix = "Schema as of "

// Syntax describes the comment leader used for a target file
type Syntax struct {
	Leader string
}

var (
	Hash  = Syntax{Leader: "#"}
	Slash = Syntax{Leader: "//"}
	Dash  = Syntax{Leader: "--"}
)

// SyntaxFor picks the comment leader for path by extension
func SyntaxFor(path string) Syntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return Slash
	case ".sql":
		return Dash
	default:
		return Hash
	}
}

// Marker is the text that identifies the start of a block
func (s Syntax) Marker() string {
	return s.Leader + " " + Prefix
}

// Location describes where a block lives in some content.
//
// Anchor is where a new block goes: the start of the first line that begins
// with the marker, or 0. Start and End bound the existing block to remove and
// are only meaningful when Found is set.
type Location struct {
	Anchor int
	Start  int
	End    int
	Found  bool
}

// Locate finds the existing block in content. A block begins with a marker at
// the start of a line, continues over lines starting with the leader and ends
// at the first blank line. A marker that never reaches a blank line is not a
// block. Markers inside a line are plain text.
func Locate(content string, s Syntax) Location {
	var loc Location
	marker := s.Marker()
	anchored := false

	for lineStart := 0; lineStart < len(content); {
		nl := strings.IndexByte(content[lineStart:], '\n')
		next := len(content)
		if nl >= 0 {
			next = lineStart + nl + 1
		}

		if strings.HasPrefix(content[lineStart:], marker) {
			if !anchored {
				loc.Anchor = lineStart
				anchored = true
			}
			if end, ok := blockEnd(content, next, s.Leader); ok {
				loc.Start = lineStart
				loc.End = end
				loc.Found = true
				return loc
			}
		}
		lineStart = next
	}
	return loc
}

// blockEnd scans body lines from pos and returns the offset just past the
// terminating blank line
func blockEnd(content string, pos int, leader string) (int, bool) {
	for pos < len(content) {
		if content[pos] == '\n' {
			return pos + 1, true
		}
		if !strings.HasPrefix(content[pos:], leader) {
			return 0, false
		}
		nl := strings.IndexByte(content[pos:], '\n')
		if nl < 0 {
			return 0, false
		}
		pos += nl + 1
	}
	return 0, false
}

// Apply removes the existing block from content, if any, and inserts block at
// the anchor
func Apply(content, block string, s Syntax) string {
	loc := Locate(content, s)
	if loc.Found {
		content = content[:loc.Start] + content[loc.End:]
	}
	return content[:loc.Anchor] + block + content[loc.Anchor:]
}
