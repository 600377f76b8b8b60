package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"chronosort/internal/organize"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		if errors.Is(err, organize.ErrConfiguration) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
