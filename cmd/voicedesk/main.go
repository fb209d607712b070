package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/tillberg/autorestart"
	"github.com/voicedesk/voicedesk/internal/cli"
)

func main() {
	// .env.local wins: godotenv never overrides variables already set.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	go autorestart.RestartOnChange()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
