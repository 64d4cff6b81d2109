package main

import "taskmind.com/taskmind/cmd"

func main() {
	cmd.Execute()
}
