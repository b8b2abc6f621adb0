package main

import "agriport/cmd/cli/command"

func main() {
	command.Execute()
}
