package main

import "alpinesearch-cli/cmd"

func main() {
	cmd.Execute()
}
