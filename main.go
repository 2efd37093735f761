package main

import "github.com/KaramelBytes/listenlens/cmd"

func main() {
	cmd.Execute()
}
