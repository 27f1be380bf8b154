// Package main is the entry point of the dsg command.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMark(), err)
		os.Exit(1)
	}
}
