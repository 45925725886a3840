package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"github.com/soyart/fingerprint"
)

const envTarget = "FINGERPRINT_TARGET"

type cli struct {
	Target string `arg:"positional" placeholder:"TARGET" help:"build output resources directory (default: build/resources/main)"`
	Config string `arg:"-c,--config,env:FINGERPRINT_CONFIG" help:"YAML config file (default: ./fingerprint.yaml if present)"`

	Hash      string   `arg:"--hash,env:FINGERPRINT_HASH" help:"fingerprint algorithm: md5 or xxhash"`
	JsVersion int      `arg:"--js-version,env:FINGERPRINT_JS_VERSION" help:"ECMAScript version targeted by JS minification"`
	Sitemap   string   `arg:"--sitemap,env:FINGERPRINT_SITEMAP" help:"HTML file name never minified"`
	Protected []string `arg:"--protect,separate" help:"extra path the target must not contain"`
	Manifest  string   `arg:"--manifest,env:FINGERPRINT_MANIFEST" help:"write JSON manifest of hashed names to this path"`
	NoMinify  bool     `arg:"--no-minify,env:FINGERPRINT_NO_MINIFY" help:"fingerprint JS and CSS without minifying"`
	NoHtml    bool     `arg:"--no-html,env:FINGERPRINT_NO_HTML" help:"do not minify HTML"`

	Verbose bool `arg:"-v,--verbose" help:"log debug messages"`
	LogJson bool `arg:"--log-json,env:FINGERPRINT_LOG_JSON" help:"log in JSON"`
}

func (cli) Description() string {
	return "fingerprint minifies JS, CSS and HTML in a build output directory,\n" +
		"renames JS and CSS assets to content-hashed names and rewrites references to them\n"
}

func main() {
	loadDotEnv()

	c := cli{}
	arg.MustParse(&c)

	err := run(&c)
	if err == nil {
		return
	}

	if errors.Is(err, fingerprint.ErrProtectedPath) {
		fmt.Fprintln(os.Stderr, "!!! refusing to process source directory !!!")
		fmt.Fprintln(os.Stderr, "fingerprint rewrites files in place and must only run on build output")
	}

	fmt.Fprintf(os.Stderr, "fingerprint: %v\n", err)
	os.Exit(1)
}

func run(c *cli) error {
	if c.Verbose {
		fingerprint.LogLevel.Set(slog.LevelDebug)
	}

	logger := fingerprint.NewLogger(os.Stderr, c.LogJson)
	slog.SetDefault(logger)

	conf, err := config(c)
	if err != nil {
		return err
	}

	opts, err := conf.Options(logger)
	if err != nil {
		return err
	}

	_, err = fingerprint.Run(target(c), opts...)
	return err
}

func target(c *cli) string {
	if c.Target != "" {
		return c.Target
	}
	if t := os.Getenv(envTarget); t != "" {
		return t
	}

	return fingerprint.TargetDefault
}

// config merges, in increasing precedence, defaults, config file and flags/env
func config(c *cli) (fingerprint.Config, error) {
	conf := fingerprint.DefaultConfig()

	path := c.Config
	if path == "" {
		if _, err := os.Stat(fingerprint.FileConfig); err == nil {
			path = fingerprint.FileConfig
		}
	}
	if path != "" {
		var err error
		conf, err = fingerprint.LoadConfig(path)
		if err != nil {
			return fingerprint.Config{}, err
		}
	}

	if c.Hash != "" {
		conf.Hash = c.Hash
	}
	if c.JsVersion != 0 {
		conf.JsVersion = c.JsVersion
	}
	if c.Sitemap != "" {
		conf.Sitemap = c.Sitemap
	}
	if c.Manifest != "" {
		conf.Manifest = c.Manifest
	}

	conf.Protected = append(conf.Protected, c.Protected...)
	conf.NoMinify = conf.NoMinify || c.NoMinify
	conf.NoMinifyHtml = conf.NoMinifyHtml || c.NoHtml

	return conf, nil
}

// loadDotEnv loads .env without overriding the existing environment
func loadDotEnv() {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}

	fmt.Fprintf(os.Stderr, "fingerprint: failed to load .env: %v\n", err)
}
