package main

import "github.com/mt4110/quickcut/cmd"

func main() {
	cmd.Execute()
}
