package main

import (
	"os"

	"github.com/sahib/grass/cmd"
)

func main() {
	os.Exit(cmd.RunCmdline(os.Args))
}
