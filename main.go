package main

import "cmdsaver/cmd"

func main() {
	cmd.Execute()
}
