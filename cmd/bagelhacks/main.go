package main

import "github.com/DekyCS/bagelhacks/internal/cmd"

func main() {
	cmd.Execute()
}
