package main

import "github.com/jengzang/places-backend-go/internal/cli"

func main() {
	cli.Execute()
}
