package main

import (
	"flag"

	"github.com/robotalks/xbee.go/pkg/cli/sh"
	"github.com/robotalks/xbee.go/pkg/config"
)

func init() {
	config.SetupFlags(flag.CommandLine)
}

func main() {
	sh.Main()
}
