package main

import "gtrends-go/internal/cli"

func main() {
	cli.Execute()
}
