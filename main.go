package main

import "github.com/KaramelBytes/labvolume-cli/cmd"

func main() {
	cmd.Execute()
}
