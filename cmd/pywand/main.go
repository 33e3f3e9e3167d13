package main

import "github.com/pywand/pywand/internal/cli"

func main() {
	cli.Execute()
}
