package main

import (
	"github.com/ludosur/parchis-server/internal/cli"
)

func main() {
	cli.Execute()
}
