package main

import "github.com/KaramelBytes/womenmatters/cmd"

func main() {
	cmd.Execute()
}
