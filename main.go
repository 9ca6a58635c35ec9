package main

import "covidboard/internal/cli"

func main() {
	cli.Execute()
}
