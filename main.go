package main

import "vkinder-bot/cmd"

func main() {
	cmd.Execute()
}
