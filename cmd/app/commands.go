package main

import (
	"github.com/urfave/cli/v3"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getCardCommands()...)
	cmds = append(cmds, getRecordCommands()...)
	cmds = append(cmds, getKeyCommands()...)
	return cmds
}
