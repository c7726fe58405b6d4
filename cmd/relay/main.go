package main

import "github.com/vietddude/relay/internal/cli"

func main() {
	cli.Execute()
}
