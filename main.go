package main

import "github.com/KaramelBytes/telecomx-cli/cmd"

func main() {
	cmd.Execute()
}
