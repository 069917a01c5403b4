package main

import "github.com/encodeous/topomon/cmd"

func main() {
	cmd.Execute()
}
