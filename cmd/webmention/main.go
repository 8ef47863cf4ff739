package main

import "github.com/emrgen/webmention/cmd"

func main() {
	cmd.Execute()
}
