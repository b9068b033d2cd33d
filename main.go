package main

import "github.com/theirongolddev/billbuddy/cmd"

func main() {
	cmd.Execute()
}
