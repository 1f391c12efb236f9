package main

import "bfsiocr/cli"

func main() {
	cli.Execute()
}
