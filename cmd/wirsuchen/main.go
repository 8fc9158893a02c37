package main

import (
	"os"

	"wirsuchen.de/backend/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
