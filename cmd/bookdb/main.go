// Package main provides the bookdb CLI: a context-chain addressed variable
// and document store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bookdb:", err)
		os.Exit(1)
	}
}
