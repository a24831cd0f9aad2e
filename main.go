package main

import "txinstall/cmd"

func main() {
	cmd.Execute()
}
