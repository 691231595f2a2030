package main

import (
	"kalimati-price-tracker/internal/cli"
)

func main() {
	cli.Execute()
}
