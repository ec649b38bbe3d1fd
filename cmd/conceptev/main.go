package main

import (
	"os"

	"github.com/ansys/conceptev-go/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
