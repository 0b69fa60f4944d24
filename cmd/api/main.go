package main

import (
	"os"

	"github.com/Cihanyuksel/ticketing-api/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		os.Exit(1)
	}
}
