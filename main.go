package main

import "github.com/nextlevelbuilder/aetherclaw/cmd"

func main() {
	cmd.Execute()
}
