package main

import (
	"os"

	"github.com/scribe-intel/scribe/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
