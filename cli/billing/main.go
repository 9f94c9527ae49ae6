package main

import (
	"context"
	"fmt"
	"os"

	"github.com/suryaGMB/billing-fastapi/cli/billing/cmd"
)

func main() {
	if err := cmd.New().Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
