package main

import "github.com/armature/armature/cmd"

func main() {
	cmd.Execute()
}
