package main

import (
	"context"
	"fmt"
	"os"

	"refresh-orchestrator/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "refresh-orchestrator: %v\n", err)
		os.Exit(1)
	}
}
