package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"

	"github.com/MimeLyc/idiom-merger/internal/errs"
	"github.com/MimeLyc/idiom-merger/internal/idioms"
	"github.com/MimeLyc/idiom-merger/internal/matcher"
	"github.com/MimeLyc/idiom-merger/pkg/file"
	"github.com/MimeLyc/idiom-merger/pkg/log"
)

// Config holds the idiom pipeline configuration.
// Values come from environment variables, optionally seeded from a
// dotenv file, with sensible defaults.
//
// Environment Variables:
// Dictionary:
// - IDIOM_DICT_PATH: tab-separated idiom dictionary (default: data/slide.tsv)
// - IDIOM_CASES_FILE: YAML file with ignored/corrections/exceptions tables (optional)
// - IDIOM_POLICY: denylist or exception (default: denylist)
// - IDIOM_COLUMN: column holding the idiom (default: 0)
// - IDIOM_TARGET_ONLY: keep target idioms only (default: true)
//
// Matcher:
// - IDIOM_MATCHER_PATH: matcher blob (default: dictionary path with .matcher extension)
// - MATCHER_FOLD_CASE: case-insensitive matching (default: true)
// - MATCHER_COMPRESSION: none or zstd (default: zstd)
// - MATCHER_BUILD_IF_MISSING: build the blob from the dictionary when absent (default: false)
//
// Merge / service:
// - MERGE_LANGUAGE: only merge text detected as this language (optional)
// - RELOAD_CRON: standard 5-field cron expression for reloads (optional)
// - LOG_LEVEL: debug, info, warn, error (default: info)
//
// - ENV_FILE: dotenv file to load first (default: .env, ignored if absent)
type Config struct {
	Dictionary DictionaryConfig `json:"dictionary"`
	Matcher    MatcherConfig    `json:"matcher"`
	Merge      MergeConfig      `json:"merge"`
	Reload     ReloadConfig     `json:"reload"`
	LogLevel   string           `json:"log_level"`
}

type DictionaryConfig struct {
	Path       string `json:"path"`
	CasesFile  string `json:"cases_file"`
	Policy     string `json:"policy"`
	Column     int    `json:"column"`
	TargetOnly bool   `json:"target_only"`
}

type MatcherConfig struct {
	Path           string `json:"path"`
	FoldCase       bool   `json:"fold_case"`
	Compression    string `json:"compression"`
	BuildIfMissing bool   `json:"build_if_missing"`
}

type MergeConfig struct {
	Language language.Tag `json:"language"`
}

type ReloadConfig struct {
	CronExpr string `json:"cron_expr"`
}

type Option func(*Config)

const DefaultDictionaryPath = "data/slide.tsv"

// New loads the dotenv file named by ENV_FILE (or .env) when it exists
// and then reads the environment.
func New(opts ...Option) (*Config, error) {
	envFile := getEnvString("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errs.Wrap(err, errs.Config, "load env file").WithContext("path", envFile)
	}
	return NewFromEnv(opts...)
}

func NewFromEnv(opts ...Option) (*Config, error) {
	mergeLanguage := language.Und
	if raw := getEnvString("MERGE_LANGUAGE", ""); raw != "" {
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, errs.Wrap(err, errs.Config, "invalid MERGE_LANGUAGE").WithContext("value", raw)
		}
		mergeLanguage = tag
	}

	config := &Config{
		Dictionary: DictionaryConfig{
			Path:       getEnvString("IDIOM_DICT_PATH", DefaultDictionaryPath),
			CasesFile:  getEnvString("IDIOM_CASES_FILE", ""),
			Policy:     getEnvString("IDIOM_POLICY", idioms.PolicyDenylist),
			Column:     getEnvInt("IDIOM_COLUMN", 0),
			TargetOnly: getEnvBool("IDIOM_TARGET_ONLY", true),
		},
		Matcher: MatcherConfig{
			Path:           getEnvString("IDIOM_MATCHER_PATH", ""),
			FoldCase:       getEnvBool("MATCHER_FOLD_CASE", true),
			Compression:    getEnvString("MATCHER_COMPRESSION", "zstd"),
			BuildIfMissing: getEnvBool("MATCHER_BUILD_IF_MISSING", false),
		},
		Merge: MergeConfig{
			Language: mergeLanguage,
		},
		Reload: ReloadConfig{
			CronExpr: getEnvString("RELOAD_CRON", ""),
		},
		LogLevel: getEnvString("LOG_LEVEL", "info"),
	}

	for _, opt := range opts {
		opt(config)
	}

	// derived after options so a dictionary override moves the blob too
	if config.Matcher.Path == "" {
		config.Matcher.Path = file.ReplaceExt(config.Dictionary.Path, ".matcher")
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Debug("Config: %+v", config)
	return config, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Dictionary.Path) == "" {
		return errs.New(errs.Config, "IDIOM_DICT_PATH is required")
	}
	if strings.TrimSpace(c.Matcher.Path) == "" {
		return errs.New(errs.Config, "IDIOM_MATCHER_PATH is required")
	}
	if c.Dictionary.Column < 0 {
		return errs.New(errs.Config, "IDIOM_COLUMN must not be negative").WithContext("value", c.Dictionary.Column)
	}
	if _, err := idioms.PolicyByName(c.Dictionary.Policy, idioms.DefaultCases()); err != nil {
		return err
	}
	if _, err := matcher.ParseCompression(c.Matcher.Compression); err != nil {
		return errs.Wrap(err, errs.Config, "invalid MATCHER_COMPRESSION")
	}
	if c.Reload.CronExpr != "" {
		if _, err := cron.ParseStandard(c.Reload.CronExpr); err != nil {
			return errs.Wrap(err, errs.Config, "invalid RELOAD_CRON").WithContext("value", c.Reload.CronExpr)
		}
	}
	return nil
}

// Cases returns the case tables from CasesFile, or the built-in ones.
func (c *Config) Cases() (idioms.Cases, error) {
	if c.Dictionary.CasesFile == "" {
		return idioms.DefaultCases(), nil
	}
	return idioms.LoadCases(c.Dictionary.CasesFile)
}

func (c *Config) Policy() (idioms.Policy, error) {
	cases, err := c.Cases()
	if err != nil {
		return idioms.Policy{}, err
	}
	return idioms.PolicyByName(c.Dictionary.Policy, cases)
}

func (c *Config) IdiomsLoader() (*idioms.Loader, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}
	loader := idioms.NewLoader(c.Dictionary.Path, policy)
	loader.Column = c.Dictionary.Column
	return loader, nil
}

func (c *Config) Compression() matcher.Compression {
	// validated in NewFromEnv
	compression, _ := matcher.ParseCompression(c.Matcher.Compression)
	return compression
}

func WithDictionaryPath(path string) Option {
	return func(c *Config) {
		c.Dictionary.Path = path
	}
}

func WithMatcherPath(path string) Option {
	return func(c *Config) {
		c.Matcher.Path = path
	}
}

func WithPolicy(name string) Option {
	return func(c *Config) {
		c.Dictionary.Policy = name
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func (c DictionaryConfig) String() string {
	return fmt.Sprintf("%s (policy=%s column=%d target_only=%t)", c.Path, c.Policy, c.Column, c.TargetOnly)
}
