package main

import (
	"fmt"
	"os"

	"tum/cmd/run"
)

func main() {
	if err := run.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
