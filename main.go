package main

import "github.com/astrangelo/stellium/cmd"

func main() {
	cmd.Execute()
}
