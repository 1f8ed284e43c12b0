// Package main is the entry point for the Petrel access-control API server.
package main

import (
	"os"

	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/petrel-io/petrel/internal/apiserver"
)

func main() {
	if err := apiserver.NewApp().Execute(); err != nil {
		os.Exit(1)
	}
}
