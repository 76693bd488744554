package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/weft/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
