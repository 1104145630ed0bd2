package main

import (
	"log"

	"github.com/nbscout/nbscout/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ nbscout failed to start: %v", err)
	}
}
