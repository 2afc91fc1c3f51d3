package main

import (
	"os"

	"github.com/GoCadetAdmin/GoCadetAdmin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
