package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MimeLyc/idiom-merger/internal/errs"
	"github.com/MimeLyc/idiom-merger/internal/idioms"
	"github.com/MimeLyc/idiom-merger/internal/matcher"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"IDIOM_DICT_PATH", "IDIOM_CASES_FILE", "IDIOM_POLICY", "IDIOM_COLUMN", "IDIOM_TARGET_ONLY",
		"IDIOM_MATCHER_PATH", "MATCHER_FOLD_CASE", "MATCHER_COMPRESSION", "MATCHER_BUILD_IF_MISSING",
		"MERGE_LANGUAGE", "RELOAD_CRON", "LOG_LEVEL", "ENV_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultDictionaryPath, cfg.Dictionary.Path)
	assert.Equal(t, filepath.Join("data", "slide.matcher"), cfg.Matcher.Path)
	assert.Equal(t, idioms.PolicyDenylist, cfg.Dictionary.Policy)
	assert.Equal(t, 0, cfg.Dictionary.Column)
	assert.True(t, cfg.Dictionary.TargetOnly)
	assert.True(t, cfg.Matcher.FoldCase)
	assert.False(t, cfg.Matcher.BuildIfMissing)
	assert.Equal(t, matcher.CompressionZstd, cfg.Compression())
	assert.Equal(t, language.Und, cfg.Merge.Language)
	assert.Empty(t, cfg.Reload.CronExpr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("IDIOM_DICT_PATH", "/srv/idioms/slide.tsv")
	t.Setenv("IDIOM_POLICY", "exception")
	t.Setenv("IDIOM_COLUMN", "2")
	t.Setenv("IDIOM_TARGET_ONLY", "false")
	t.Setenv("MATCHER_FOLD_CASE", "0")
	t.Setenv("MATCHER_COMPRESSION", "none")
	t.Setenv("MATCHER_BUILD_IF_MISSING", "true")
	t.Setenv("MERGE_LANGUAGE", "en-GB")
	t.Setenv("RELOAD_CRON", "*/5 * * * *")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/srv/idioms/slide.matcher", cfg.Matcher.Path)
	assert.Equal(t, idioms.PolicyException, cfg.Dictionary.Policy)
	assert.Equal(t, 2, cfg.Dictionary.Column)
	assert.False(t, cfg.Dictionary.TargetOnly)
	assert.False(t, cfg.Matcher.FoldCase)
	assert.True(t, cfg.Matcher.BuildIfMissing)
	assert.Equal(t, matcher.CompressionNone, cfg.Compression())
	assert.Equal(t, language.MustParse("en-GB"), cfg.Merge.Language)
	assert.Equal(t, "*/5 * * * *", cfg.Reload.CronExpr)
}

func TestNewFromEnv_Options(t *testing.T) {
	clearEnv(t)

	cfg, err := NewFromEnv(
		WithDictionaryPath("a.tsv"),
		WithMatcherPath("b.matcher"),
		WithPolicy("exception"),
	)
	require.NoError(t, err)
	assert.Equal(t, "a.tsv", cfg.Dictionary.Path)
	assert.Equal(t, "b.matcher", cfg.Matcher.Path)
	assert.Equal(t, idioms.PolicyException, cfg.Dictionary.Policy)

	cfg, err = NewFromEnv(WithDictionaryPath("/tmp/other/idioms.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other/idioms.matcher", cfg.Matcher.Path)

	t.Setenv("IDIOM_MATCHER_PATH", "/srv/blobs/pinned.matcher")
	cfg, err = NewFromEnv(WithDictionaryPath("/tmp/other/idioms.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/blobs/pinned.matcher", cfg.Matcher.Path)
}

func TestNewFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown policy", "IDIOM_POLICY", "fuzzy"},
		{"negative column", "IDIOM_COLUMN", "-1"},
		{"unknown compression", "MATCHER_COMPRESSION", "brotli"},
		{"bad language", "MERGE_LANGUAGE", "not a language"},
		{"bad cron", "RELOAD_CRON", "every tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := NewFromEnv()
			require.Error(t, err)
			assert.True(t, errs.IsKind(err, errs.Config), err.Error())
		})
	}
}

func TestNew_LoadsEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), "idioms.env")
	require.NoError(t, os.WriteFile(envFile, []byte("IDIOM_POLICY=exception\nIDIOM_DICT_PATH=/tmp/x.tsv\n"), 0644))
	t.Setenv("ENV_FILE", envFile)
	// godotenv does not override variables that are already set, and
	// clearEnv set them to "", so drop the two the file provides.
	require.NoError(t, os.Unsetenv("IDIOM_POLICY"))
	require.NoError(t, os.Unsetenv("IDIOM_DICT_PATH"))
	t.Cleanup(func() {
		os.Unsetenv("IDIOM_POLICY")
		os.Unsetenv("IDIOM_DICT_PATH")
	})

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, idioms.PolicyException, cfg.Dictionary.Policy)
	assert.Equal(t, "/tmp/x.tsv", cfg.Dictionary.Path)
}

func TestNew_MissingEnvFileIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	_, err := New()
	require.NoError(t, err)
}

func TestPolicyFromCasesFile(t *testing.T) {
	clearEnv(t)
	casesPath := filepath.Join(t.TempDir(), "cases.yaml")
	require.NoError(t, os.WriteFile(casesPath, []byte("ignored:\n  - kick the bucket\n"), 0644))
	t.Setenv("IDIOM_CASES_FILE", casesPath)

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.False(t, policy.IsTarget("kick the bucket"))

	loader, err := cfg.IdiomsLoader()
	require.NoError(t, err)
	assert.Equal(t, cfg.Dictionary.Path, loader.Path)
	assert.Equal(t, idioms.PolicyDenylist, loader.Policy.Name)
}

func TestPolicy_MissingCasesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("IDIOM_CASES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	_, err = cfg.Policy()
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.FileNotFound))
}
