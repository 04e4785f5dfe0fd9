package main

import "github.com/KaramelBytes/tuplegen/cmd"

func main() {
	cmd.Execute()
}
