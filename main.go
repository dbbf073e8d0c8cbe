package main

import "github.com/instylo/companion/cmd"

func main() {
	cmd.Execute()
}
