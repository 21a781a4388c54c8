package main

import (
	"fmt"
	"os"

	"github.com/elxr-labs/go-elxr-ecc/cmd/eccframe/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
