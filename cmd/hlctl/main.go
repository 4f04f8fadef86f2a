package main

import (
	"fmt"
	"os"

	"household-ledger-go/cmd/hlctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
