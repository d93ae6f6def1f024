package main

import "github.com/josephlewis42/myshell/cmd"

func main() {
	cmd.Execute()
}
