package main

import (
	"os"

	"github.com/bnema/chat-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
