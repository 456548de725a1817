package main

import (
	"os"

	"github.com/quizwiz/quizwiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
