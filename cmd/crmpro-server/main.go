package main

import (
	"github.com/larsks/crmpro/internal/cli"
	"github.com/larsks/crmpro/internal/landing"
	_ "github.com/larsks/crmpro/internal/logsetup"
)

func main() {
	cli.StandardMain(
		func() cli.Configurable { return landing.NewConfig() },
		landing.NewHandler(),
	)
}
