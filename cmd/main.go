package main

import (
	"domainkeeper/internal/cli"
	"domainkeeper/internal/cmdutil"
	"os"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		cmdutil.PrintE(err.Error())
		os.Exit(1)
	}
}
