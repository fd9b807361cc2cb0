package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// SCRIBE_* variables may come from a .env file in the working directory
	_ = godotenv.Load()
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
