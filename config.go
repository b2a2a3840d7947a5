package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/asaidimu/go-tabula/core/table"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config describes one tabula run. It can be read from a YAML file and
// overridden by command line flags.
type Config struct {
	// DB is the path of a SQLite database. Query or Table selects the rows.
	DB    string `yaml:"db"`
	Query string `yaml:"query"`
	Table string `yaml:"table"`

	// Rows is the path of a YAML or JSON file holding a list of objects. It is
	// an alternative to DB.
	Rows string `yaml:"rows"`

	Filter    string              `yaml:"filter"`
	Sort      string              `yaml:"sort"`
	Direction table.SortDirection `yaml:"direction"`
	Page      int                 `yaml:"page"`
	PageSize  int                 `yaml:"page_size"`
	Verbose   bool                `yaml:"verbose"`
}

// DefaultConfig returns the settings used when neither a file nor a flag sets
// a value.
func DefaultConfig() *Config {
	return &Config{
		Direction: table.SortAsc,
		PageSize:  10,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first inconsistency in cfg.
func (c *Config) Validate() error {
	switch {
	case c.DB == "" && c.Rows == "":
		return errors.New("one of --db or --rows is required")
	case c.DB != "" && c.Rows != "":
		return errors.New("--db and --rows are mutually exclusive")
	case c.DB != "" && c.Query == "" && c.Table == "":
		return errors.New("--db requires --query or --table")
	case c.Query != "" && c.Table != "":
		return errors.New("--query and --table are mutually exclusive")
	case !c.Direction.Valid():
		return fmt.Errorf("invalid direction %q", c.Direction)
	case c.Page < 0:
		return fmt.Errorf("page must not be negative, got %d", c.Page)
	case c.PageSize <= 0:
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	return nil
}

// parseFlags builds a Config from args. Values from --config are applied
// first; flags given explicitly win over the file.
func parseFlags(args []string) (*Config, error) {
	defaults := DefaultConfig()
	fs := pflag.NewFlagSet("tabula", pflag.ContinueOnError)

	configPath := fs.StringP("config", "c", "", "YAML config file")
	db := fs.String("db", "", "SQLite database path")
	query := fs.StringP("query", "q", "", "SQL query selecting the rows")
	tableName := fs.StringP("table", "t", "", "table to load in full")
	rows := fs.String("rows", "", "YAML or JSON file with a list of rows")
	filter := fs.StringP("filter", "f", "", "case-insensitive text filter")
	sortBy := fs.StringP("sort", "s", "", "column to sort by")
	direction := fs.StringP("direction", "d", string(defaults.Direction), "sort direction: asc or desc")
	page := fs.IntP("page", "p", defaults.Page, "zero-based page index")
	pageSize := fs.IntP("page-size", "n", defaults.PageSize, "rows per page")
	verbose := fs.BoolP("verbose", "v", false, "log pipeline activity to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := defaults
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	overrides := map[string]func(){
		"db":        func() { cfg.DB = *db },
		"query":     func() { cfg.Query = *query },
		"table":     func() { cfg.Table = *tableName },
		"rows":      func() { cfg.Rows = *rows },
		"filter":    func() { cfg.Filter = *filter },
		"sort":      func() { cfg.Sort = *sortBy },
		"direction": func() { cfg.Direction = table.SortDirection(*direction) },
		"page":      func() { cfg.Page = *page },
		"page-size": func() { cfg.PageSize = *pageSize },
		"verbose":   func() { cfg.Verbose = *verbose },
	}
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
