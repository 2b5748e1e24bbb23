package main

import "github.com/tesh254/axmd/cmd"

func main() {
	cmd.Execute()
}
