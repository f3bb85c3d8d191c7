package main

import (
	"os"

	"github.com/ifj25lang/ifj25c/cmd/ifj25c/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
