package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/temirov/forgehealth/cmd/cli"
)

const errorOutputTemplateConstant = "Error: %v\n"

func main() {
	_ = godotenv.Load()

	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, errorOutputTemplateConstant, executionError)
		os.Exit(1)
	}
}
