package main

import "github.com/pfrederiksen/rsr-olymps/internal/cli"

func main() {
	cli.Execute()
}
