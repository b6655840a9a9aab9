package main

import "github.com/droidlab/droidprep/cmd"

func main() {
	cmd.Execute()
}
