package main

import "github.com/alextreichler/shopfront/cmd/roster/commands"

func main() {
	commands.Execute()
}
