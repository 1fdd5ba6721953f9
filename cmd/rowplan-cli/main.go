package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/meltforce/rowplan/internal/cli"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	app := &cli.App{
		Color:   isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		Now:     time.Now,
		Version: Version,
	}

	if err := cli.NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
