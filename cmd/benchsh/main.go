package main

import (
	"github.com/robotalks/ampbridge/pkg/cli/sh"

	_ "github.com/robotalks/ampbridge/pkg/cli/cmds/display"
	_ "github.com/robotalks/ampbridge/pkg/cli/cmds/module"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}
