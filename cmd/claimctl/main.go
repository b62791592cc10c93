package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// optional .env for local runs; real deployments set the environment
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
