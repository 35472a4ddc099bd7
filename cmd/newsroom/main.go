package main

import "github.com/newsdesk/newsroom/cmd/newsroom/cmd"

func main() {
	cmd.Execute()
}
