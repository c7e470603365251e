// file: main.go
// version: 2.0.0
// guid: 78ff272b-f0ea-4dcc-8932-4ecb01a5eefb

package main

import (
	"fmt"
	"os"

	"github.com/jdfalk/library-catalog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
