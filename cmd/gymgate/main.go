package main

import (
	"github.com/gymgate/gymgate/adapter/cli"
	"github.com/gymgate/gymgate/pkg/observability"
)

func main() {
	cli.SetLogger(observability.LoggerFromEnv())
	cli.Execute()
}
