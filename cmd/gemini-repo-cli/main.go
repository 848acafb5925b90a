package main

import (
	"github.com/joho/godotenv"

	"github.com/deniskropp/gemini-repo-cli/internal/cli"
)

func main() {
	// Best-effort .env load so GEMINI_API_KEY can live alongside the repo.
	_ = godotenv.Load()

	cli.Execute()
}
