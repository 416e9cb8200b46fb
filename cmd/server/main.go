package main

import (
	"fmt"
	"os"

	"github.com/edvance/edvance-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		application.Log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
