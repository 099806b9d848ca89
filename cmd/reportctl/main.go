package main

import "hrinsight/internal/cli"

func main() {
	cli.Execute()
}
