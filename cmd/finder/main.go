package main

import (
	"os"

	"collection_finder/cmd/finder/commands"
)

// go run ./cmd/finder [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
