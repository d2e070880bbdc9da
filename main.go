package main

import (
	"os"

	"github.com/josephlewis42/liteshell/cmd"
	"github.com/josephlewis42/liteshell/core/vos"
)

func main() {
	// Processes started by the shell resolve and exec their program.
	if vos.IsExecChild() {
		os.Exit(vos.ExecChild(os.Args[1:], os.Stderr))
	}

	cmd.Execute()
}
