package main

import "github.com/notargets/walldist/cmd"

func main() {
	cmd.Execute()
}
