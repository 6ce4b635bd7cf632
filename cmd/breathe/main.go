package main

import "breathe-backend/interfaces/cli"

func main() {
	cli.Execute()
}
