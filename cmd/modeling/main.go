// Command modeling inspects schema files and runs the input acceptor of the
// models they declare.
//
// Usage:
//
//	modeling describe -f schema.yaml [-m Model] [-o json|yaml]
//	modeling jsonschema -f schema.yaml [-m Model]
//	modeling input -f schema.yaml [-m Model] [data.json]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
