package main

import "store-service/internal/cli"

func main() {
	cli.Execute()
}
