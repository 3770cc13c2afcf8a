package main

import "github.com/theirongolddev/tripplan/cmd"

func main() {
	cmd.Execute()
}
