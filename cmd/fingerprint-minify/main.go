package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/soyart/fingerprint/minifier"
)

type mainArg struct {
	Files     []string `arg:"positional,required" help:"HTML, CSS or JS files to minify"`
	JsVersion int      `arg:"--js-version" default:"2015" help:"ECMAScript version targeted by JS minification"`
	InPlace   bool     `arg:"-i,--in-place" help:"overwrite files instead of printing to stdout"`
}

func main() {
	args := mainArg{}
	arg.MustParse(&args)

	m := minifier.New(minifier.Options{
		JsVersion: args.JsVersion,
		Fragments: minifier.FragmentsThymeleaf,
	})

	for _, filename := range args.Files {
		minified, err := m.MinifyFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to minify '%s': %v\n", filename, err)
			os.Exit(1)
		}

		if !args.InPlace {
			fmt.Fprintf(os.Stdout, "%s\n", minified)
			continue
		}

		stat, err := os.Stat(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to stat '%s': %v\n", filename, err)
			os.Exit(1)
		}

		err = os.WriteFile(filename, minified, stat.Mode().Perm())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to write '%s': %v\n", filename, err)
			os.Exit(1)
		}
	}
}
