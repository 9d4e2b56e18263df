package main

import (
	"fmt"
	"os"

	"github.com/dimitrije/keyforge-api/cmd/keyforgectl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
