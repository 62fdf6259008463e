package main

import "github.com/alextreichler/shopfront/cmd/storefront/commands"

func main() {
	commands.Execute()
}
