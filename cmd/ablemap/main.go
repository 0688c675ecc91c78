package main

import (
	"log"

	"github.com/ablemap/ablemap/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ ablemap failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ ablemap stopped with error: %v", err)
	}
}
