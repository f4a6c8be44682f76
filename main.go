package main

import (
	"os"

	"github.com/control-frameworks/attackmap/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
