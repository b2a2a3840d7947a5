// Command tabula loads rows from a SQLite database or a YAML/JSON file, runs
// them through a table data source, and prints one page of the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/asaidimu/go-tabula/core/paging"
	"github.com/asaidimu/go-tabula/core/sorting"
	"github.com/asaidimu/go-tabula/core/table"
	"github.com/asaidimu/go-tabula/sqlite"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, os.Stdout, logger); err != nil {
		logger.Error("tabula failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the configured rows, renders the requested page, and writes it to
// out as YAML followed by the paginator's range label.
func run(ctx context.Context, cfg *Config, out io.Writer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	rows, err := loadRows(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sorter, err := sorting.New(&sorting.Options{Active: cfg.Sort, Direction: cfg.Direction})
	if err != nil {
		return err
	}
	paginator := paging.New(&paging.Options{PageIndex: cfg.Page, PageSize: cfg.PageSize})

	ds, err := table.New(rows, &table.Options[table.Document]{
		Logger:    logger,
		Sort:      sorter,
		Paginator: paginator,
	})
	if err != nil {
		return err
	}
	ds.SetFilter(cfg.Filter)
	ds.Connect()
	defer ds.Disconnect()

	sorter.Initialize()
	paginator.Initialize()

	logger.Info("Rendered page",
		zap.Int("rows", len(ds.Rows())),
		zap.Int("filtered", len(ds.FilteredRows())),
		zap.Int("pageIndex", paginator.PageIndex()),
	)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(ds.RenderedRows()); err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	_, err = fmt.Fprintln(out, paginator.RangeLabel())
	return err
}

// loadRows reads rows from the database or the rows file named in cfg.
func loadRows(ctx context.Context, cfg *Config, logger *zap.Logger) ([]table.Document, error) {
	if cfg.Rows != "" {
		return readRowsFile(cfg.Rows)
	}

	db, err := sqlite.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	loader := sqlite.NewLoader(db, logger)
	if cfg.Table != "" {
		return loader.LoadTable(ctx, cfg.Table)
	}
	return loader.Load(ctx, cfg.Query)
}

// readRowsFile decodes a list of objects. JSON input is accepted since it is
// valid YAML.
func readRowsFile(path string) ([]table.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows %s: %w", path, err)
	}
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rows %s: %w", path, err)
	}
	rows := make([]table.Document, len(raw))
	for i, r := range raw {
		rows[i] = table.Document(r)
	}
	return rows, nil
}
