package formatter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tordrt/schemanote/internal/schema"
)

const (
	// DefaultLeader starts every line of a rendered block
	DefaultLeader = "#"

	nameWidth    = 40
	typeWidth    = 20
	commentWidth = 70
)

// BlockFormatter writes column metadata as a comment block. Each line starts
// with the leader and the block ends with a leader-only line and a blank line.
type BlockFormatter struct {
	writer io.Writer
	leader string
}

// NewBlockFormatter creates a block formatter using leader as the line prefix
func NewBlockFormatter(w io.Writer, leader string) *BlockFormatter {
	if leader == "" {
		leader = DefaultLeader
	}
	return &BlockFormatter{writer: w, leader: leader}
}

// Format writes the header line, an empty comment line and the column body
func (f *BlockFormatter) Format(header string, columns []schema.Column) error {
	if _, err := fmt.Fprintf(f.writer, "%s %s\n%s\n", f.leader, header, f.leader); err != nil {
		return err
	}
	return f.FormatBody(columns)
}

// FormatBody writes one line per column plus wrapped comments, without a header
func (f *BlockFormatter) FormatBody(columns []schema.Column) error {
	var sb strings.Builder
	for _, col := range columns {
		f.writeColumn(&sb, col)
	}
	sb.WriteString(f.leader)
	sb.WriteString("\n\n")

	_, err := io.WriteString(f.writer, sb.String())
	return err
}

func (f *BlockFormatter) writeColumn(sb *strings.Builder, col schema.Column) {
	typ := col.TypeLabel()
	attrs := columnAttributes(col)

	sb.WriteString(f.leader)
	sb.WriteString("  ")
	sb.WriteString(col.Name)
	sb.WriteString(padding(col.Name, nameWidth))
	sb.WriteString(typ)
	if len(attrs) > 0 {
		sb.WriteString(padding(typ, typeWidth))
		sb.WriteString(strings.Join(attrs, ", "))
	}
	sb.WriteByte('\n')

	if !col.HasComment() {
		return
	}
	for _, line := range WordWrap(*col.Comment, commentWidth) {
		sb.WriteString(f.leader)
		sb.WriteString("    ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(f.leader)
	sb.WriteByte('\n')
}

func columnAttributes(col schema.Column) []string {
	var attrs []string
	if col.DefaultValue != nil {
		attrs = append(attrs, fmt.Sprintf("default(%s)", *col.DefaultValue))
	}
	if !col.Nullable {
		attrs = append(attrs, "not null")
	}
	return attrs
}

// padding returns the spaces needed to left-justify s in width columns.
// Values wider than width get none.
func padding(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// Render returns the full block for columns using the default "#" leader
func Render(columns []schema.Column, header string) string {
	return RenderWith(DefaultLeader, columns, header)
}

// RenderWith returns the full block for columns using leader as the line prefix
func RenderWith(leader string, columns []schema.Column, header string) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = NewBlockFormatter(&sb, leader).Format(header, columns)
	return sb.String()
}

// RenderBody returns the headerless block used for schema summaries
func RenderBody(columns []schema.Column) string {
	var sb strings.Builder
	_ = NewBlockFormatter(&sb, DefaultLeader).FormatBody(columns)
	return sb.String()
}
