package main

import "github.com/VoxDroid/taxis/cmd"

func main() {
	cmd.Execute()
}
