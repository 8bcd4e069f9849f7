package main

import (
	"os"

	"github.com/Yzori/Critvue-sub003/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
