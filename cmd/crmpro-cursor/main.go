package main

import (
	"github.com/larsks/crmpro/internal/cli"
	_ "github.com/larsks/crmpro/internal/logsetup"
	"github.com/larsks/crmpro/internal/tui"
)

func main() {
	cli.StandardMain(
		func() cli.Configurable { return tui.NewConfig() },
		tui.NewHandler(),
	)
}
