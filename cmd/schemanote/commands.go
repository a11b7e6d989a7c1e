package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"
	"gopkg.in/yaml.v3"

	"github.com/tordrt/schemanote"
	"github.com/tordrt/schemanote/internal/config"
	"github.com/tordrt/schemanote/internal/migrate"
)

// stdio names standard input or output in place of a file path
const stdio = "-"

type params struct {
	configFile       string
	truncateComments bool
}

func initGlobalFlags(cmd *cobra.Command, p *params) {
	cmd.Flags().StringVar(&p.configFile, "config", "", "Config file (default: .schemanote.yaml)")
	cmd.Flags().String("database-url", "", "Database URL: postgres://, mysql:// or sqlite://")
	cmd.Flags().StringP("schema", "s", "", "Database schema name (default: public for PostgreSQL)")
}

func loadConfig(cmd *cobra.Command, p *params) (*config.Config, *schemanote.Options, error) {
	cfg, err := config.Load(cmd.Flags(), p.configFile)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Verbose {
		// config file or environment; --verbose is handled by the root command
		logger.SetLogLevel(logger.LogLevelVerbose)
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("--database-url or SCHEMANOTE_DATABASE_URL must be specified")
	}
	logger.Verbose("using database", cfg.DatabaseURL)

	return cfg, &schemanote.Options{
		SchemaName:       cfg.Schema,
		TruncateComments: p.truncateComments,
		ModelsDir:        cfg.ModelsDir,
		FixturesDir:      cfg.FixturesDir,
		Output:           cfg.Output,
		Writer:           cmd.OutOrStdout(),
	}, nil
}

func newAnnotateCmd() *cobra.Command {
	p := params{}
	cmd := &cobra.Command{
		Use:   "annotate [models...]",
		Short: "Write schema blocks into model and fixture files",
		Long: `Annotate writes a comment block describing each model's table at the top of
the model source file and the table's fixture file, replacing the block from
any earlier run. Without arguments every model file in the models directory is
annotated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := loadConfig(cmd, &p)
			if err != nil {
				return err
			}
			summary, err := schemanote.Annotate(cmd.Context(), cfg.DatabaseURL, args, opts)
			if err != nil {
				return err
			}
			logger.Info(fmt.Sprintf("annotated %d models, summary in %s", len(summary.Models()), cfg.Output))
			return nil
		},
	}
	initGlobalFlags(cmd, &p)
	cmd.Flags().String("models-dir", "app/models", "Directory of model source files")
	cmd.Flags().String("fixtures-dir", "test/fixtures", "Directory of fixture files")
	cmd.Flags().StringP("output", "o", "db/schema.txt", "Summary file rewritten after each run")
	return cmd
}

func newDumpCmd() *cobra.Command {
	p := params{}
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the database schema, with column comments, as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := loadConfig(cmd, &p)
			if err != nil {
				return err
			}

			if cfg.SchemaFile == stdio {
				return schemanote.DumpSchema(cmd.Context(), cfg.DatabaseURL, cmd.OutOrStdout(), opts)
			}

			if err := os.MkdirAll(filepath.Dir(cfg.SchemaFile), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			f, err := os.Create(cfg.SchemaFile)
			if err != nil {
				return fmt.Errorf("failed to create schema file: %w", err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					logger.Warning("failed to close schema file:", err)
				}
			}()
			return schemanote.DumpSchema(cmd.Context(), cfg.DatabaseURL, f, opts)
		},
	}
	initGlobalFlags(cmd, &p)
	cmd.Flags().StringP("schema-file", "f", "db/schema.yml", "Schema file to write, - for stdout")
	return cmd
}

func newLoadCmd() *cobra.Command {
	p := params{}
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Re-create the tables of a YAML schema file, dropping existing ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := loadConfig(cmd, &p)
			if err != nil {
				return err
			}

			r, closeFn, err := openInput(cmd, cfg.SchemaFile)
			if err != nil {
				return err
			}
			defer closeFn()
			return schemanote.LoadSchema(cmd.Context(), cfg.DatabaseURL, r, opts)
		},
	}
	initGlobalFlags(cmd, &p)
	cmd.Flags().StringP("schema-file", "f", "db/schema.yml", "Schema file to read, - for stdin")
	cmd.Flags().BoolVar(&p.truncateComments, "truncate-comments", false, "Cut MySQL column comments to 255 characters")
	return cmd
}

func newCommentsCmd() *cobra.Command {
	p := params{}
	cmd := &cobra.Command{
		Use:   "comments <file.yml|file.sql>",
		Short: "Set column comments from a YAML file or a MySQL DDL script",
		Long: `Comments sets column comments in bulk. A YAML file maps tables to
{column: comment} pairs. A .sql file is read as MySQL DDL and the COMMENT
clauses of its CREATE TABLE and ALTER TABLE statements are applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := loadConfig(cmd, &p)
			if err != nil {
				return err
			}

			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			comments, err := readComments(r, strings.EqualFold(filepath.Ext(args[0]), ".sql"))
			if err != nil {
				return err
			}
			return schemanote.ApplyComments(cmd.Context(), cfg.DatabaseURL, comments, opts)
		},
	}
	initGlobalFlags(cmd, &p)
	cmd.Flags().BoolVar(&p.truncateComments, "truncate-comments", false, "Cut MySQL column comments to 255 characters")
	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == stdio {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// readComments decodes a table: {column: comment} document, or collects the
// column comments of a DDL script
func readComments(r io.Reader, ddl bool) (map[string]map[string]string, error) {
	if ddl {
		script, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read DDL: %w", err)
		}
		return migrate.ParseComments(string(script))
	}

	comments := map[string]map[string]string{}
	if err := yaml.NewDecoder(r).Decode(&comments); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse comments: %w", err)
	}
	return comments, nil
}
