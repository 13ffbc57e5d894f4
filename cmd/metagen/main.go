package main

import (
	"os"

	"github.com/toyz/metagen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
