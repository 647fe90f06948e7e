package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"pawswap/cmd"
)

func main() {
	// .env is optional; config can come entirely from the environment
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
