package main

import "github.com/theirongolddev/estalvi/cmd"

func main() {
	cmd.Execute()
}
