package main

import "github.com/mouse-blink/f2fguard/cmd"

func main() {
	cmd.Execute()
}
