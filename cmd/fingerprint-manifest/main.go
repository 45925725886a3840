package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"

	"github.com/soyart/fingerprint"
)

type mainArg struct {
	ManifestPath []string `arg:"positional" help:"Path to JSON manifest written by fingerprint --manifest"`
	Target       string   `arg:"-t,--target" default:"build/resources/main" help:"build output the manifests describe"`
	Print        bool     `arg:"-p,--print" help:"print manifest entries"`
}

func main() {
	path := "./manifest.json"
	args := mainArg{}
	arg.MustParse(&args)

	if len(args.ManifestPath) == 0 {
		args.ManifestPath = []string{path}
	}

	failed := false
	for i := range args.ManifestPath {
		err := verify(args.ManifestPath[i], args.Target, args.Print)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", args.ManifestPath[i], err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func verify(path, target string, show bool) error {
	m, err := fingerprint.NewManifest(path)
	if err != nil {
		return err
	}

	if show {
		for _, k := range m.Keys() {
			fmt.Printf("%s\t%s\n", k, m[k])
		}
	}

	return m.Verify(filepath.Join(target, fingerprint.DirStatic))
}
