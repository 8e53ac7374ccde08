package main

import "saimgo/cmd"

func main() {
	cmd.Execute()
}
