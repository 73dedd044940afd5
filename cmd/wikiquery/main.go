package main

import (
	"context"
	"os"

	"wikiquery/internal/cli"
	"wikiquery/internal/logging"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		logging.Get().Error("command failed", "error", err)
		os.Exit(1)
	}
}
