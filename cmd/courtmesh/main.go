package main

import "github.com/hupe1980/courtmesh/cmd"

func main() {
	cmd.Execute()
}
