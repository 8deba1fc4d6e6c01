package main

import "github.com/CyrilRPG/diploma/cmd"

func main() {
	cmd.Execute()
}
