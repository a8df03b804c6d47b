package main

import (
	"fmt"
	"os"

	"github.com/temirov/branchwipe/cmd/cli"
)

const (
	exitErrorTemplateConstant = "branchwipe: %v\n"
)

func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
