package main

import (
	"os"

	"github.com/karthikeyakondabathula/llm-resume-parser/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
