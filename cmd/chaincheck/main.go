package main

import "github.com/mvp-joe/chaincheck/internal/cli"

func main() {
	cli.Execute()
}
