package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/untillpro/goutils/cobrau"
)

//go:embed version
var version string

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	rootCmd := cobrau.PrepareRootCmd(
		"schemanote",
		"Annotate models with their live schema and keep column comments through DDL",
		args,
		ver,
		newAnnotateCmd(),
		newDumpCmd(),
		newLoadCmd(),
		newCommentsCmd(),
	)

	return cobrau.ExecCommandAndCatchInterrupt(rootCmd)
}
