package main

import "github.com/dvega/portreport/pkg/cli"

func main() {
	cli.Execute()
}
