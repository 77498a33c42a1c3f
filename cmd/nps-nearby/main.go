package main

import cmd "github.com/rohmanhakim/nps-nearby/internal/cli"

func main() {
	cmd.Execute()
}
