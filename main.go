package main

import "golang-netdef/cmd"

func main() {
	cmd.Execute()
}
