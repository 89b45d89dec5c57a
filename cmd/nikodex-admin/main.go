package main

import "nikodex/cmd/nikodex-admin/commands"

func main() {
	commands.Execute()
}
