package main

import "github.com/calradia/rosterkit/cmd/rosterkit/cmd"

func main() {
	cmd.Execute()
}
