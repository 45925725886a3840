package fingerprint

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soyart/fingerprint/minifier"
)

// FileConfig is picked up from the working directory when no config path is given
const FileConfig = "fingerprint.yaml"

// Config is the file form of fingerprint options.
// Environment variables (${VAR}) in the file are expanded before parsing.
type Config struct {
	Hash         string   `yaml:"hash"`
	JsVersion    int      `yaml:"js_version"`
	Sitemap      string   `yaml:"sitemap"`
	Protected    []string `yaml:"protected"`
	Manifest     string   `yaml:"manifest"`
	NoMinify     bool     `yaml:"no_minify"`
	NoMinifyHtml bool     `yaml:"no_minify_html"`
}

func DefaultConfig() Config {
	return Config{
		Hash:      HashMd5,
		JsVersion: minifier.JsVersionDefault,
		Sitemap:   SitemapDefault,
	}
}

// LoadConfig reads path over DefaultConfig
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	conf := DefaultConfig()
	err = yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &conf)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config '%s': %w", path, err)
	}

	_, err = HashFuncOf(conf.Hash)
	if err != nil {
		return Config{}, fmt.Errorf("bad config '%s': %w", path, err)
	}

	return conf, nil
}

func (c Config) Options(logger *slog.Logger) ([]Option, error) {
	hash, err := HashFuncOf(c.Hash)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithHashFunc(hash),
		WithProtectedPaths(c.Protected...),
		WithMinifier(minifier.New(minifier.Options{
			JsVersion: c.JsVersion,
			Fragments: minifier.FragmentsThymeleaf,
		})),
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	if c.Sitemap != "" {
		opts = append(opts, WithSitemap(c.Sitemap))
	}
	if c.Manifest != "" {
		opts = append(opts, WithManifest(c.Manifest))
	}
	if c.NoMinify {
		opts = append(opts, SkipMinify())
	}
	if c.NoMinifyHtml {
		opts = append(opts, SkipMinifyHtml())
	}

	return opts, nil
}
