package main

import "github.com/focusconform/validator/cmd"

func main() {
	cmd.Execute()
}
