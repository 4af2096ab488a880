package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/renaldyr/gigtix/internal/server"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Fatal("Error loading .env file")
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
