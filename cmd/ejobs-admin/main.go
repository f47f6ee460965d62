// Package main is the entry point for ejobs-admin, the maintenance CLI for
// the ejobs job board.
package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/justsurfingit/ejobs/cmd/ejobs-admin/internal/commands"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return commands.NewRootCommand().Execute()
}
