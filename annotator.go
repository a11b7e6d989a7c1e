package schemanote

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/untillpro/goutils/logger"

	"github.com/tordrt/schemanote/internal/annotate"
	"github.com/tordrt/schemanote/internal/formatter"
	"github.com/tordrt/schemanote/internal/models"
	"github.com/tordrt/schemanote/internal/schema"
)

// HeaderTimeLayout is how the header stamps the time of a run
const HeaderTimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Introspector reads the live schema an annotation run documents
type Introspector interface {
	Columns(ctx context.Context, table string) ([]schema.Column, error)
	CurrentVersion(ctx context.Context) (int64, error)
}

// Header returns the first line of every block written in a run
func Header(now time.Time, version int64) string {
	header := annotate.Prefix + now.Format(HeaderTimeLayout)
	if version > 0 {
		header += fmt.Sprintf(" (schema version %d)", version)
	}
	return header
}

// Annotator writes schema blocks into model and fixture files
type Annotator struct {
	introspector Introspector
	resolver     models.Resolver
	opts         *Options
}

// NewAnnotator creates an annotator. opts may be nil.
func NewAnnotator(introspector Introspector, resolver models.Resolver, opts *Options) *Annotator {
	return &Annotator{
		introspector: introspector,
		resolver:     resolver,
		opts:         opts.withDefaults(),
	}
}

// Run annotates each named model in order and returns the run's summary,
// which is also written to Options.Output. Names that do not resolve
// to a table are skipped; any other failure stops the run.
func (a *Annotator) Run(ctx context.Context, names []string) (*Summary, error) {
	version, err := a.introspector.CurrentVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	header := Header(a.opts.Now(), version)
	summary := &Summary{}

	for _, name := range names {
		res := a.resolver.Resolve(ctx, name)
		if !res.Found {
			skipped := res.Name
			if skipped == "" {
				skipped = name
			}
			fmt.Fprintf(a.opts.Writer, "Skipping %s\n", skipped)
			logger.Verbose("skipped", name+":", res.Err)
			continue
		}

		fmt.Fprintf(a.opts.Writer, "Annotating %s\n", res.Name)
		if err := a.annotateModel(ctx, res.Handle, header, summary); err != nil {
			return nil, err
		}
	}

	if err := summary.WriteFile(a.opts.Output); err != nil {
		return nil, err
	}
	return summary, nil
}

func (a *Annotator) annotateModel(ctx context.Context, h models.Handle, header string, summary *Summary) error {
	columns, err := a.introspector.Columns(ctx, h.Table)
	if err != nil {
		return fmt.Errorf("failed to read columns of %s: %w", h.Table, err)
	}

	for _, target := range a.targets(h) {
		block := formatter.RenderWith(annotate.SyntaxFor(target).Leader, columns, header)
		result, err := annotate.File(target, block)
		if err != nil {
			return err
		}
		logger.Verbose(target, result)
	}

	summary.Add(h.Name, formatter.RenderBody(columns))
	return nil
}

// targets returns the model source file and the fixture file of h
func (a *Annotator) targets(h models.Handle) []string {
	return []string{
		filepath.Join(a.opts.ModelsDir, filepath.FromSlash(h.File)+".go"),
		filepath.Join(a.opts.FixturesDir, h.Table+".yml"),
	}
}

// DefaultModelNames lists the model files below dir as slash-separated paths
// without extension, e.g. "user" or "admin/user_profile". Test files are left
// out.
func DefaultModelNames(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSuffix(filepath.ToSlash(rel), ".go"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list models in %s: %w", dir, err)
	}
	return names, nil
}
