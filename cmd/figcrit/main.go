package main

import (
	"os"

	"github.com/dshills/figcrit/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
