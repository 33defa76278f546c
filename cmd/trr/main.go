package main

import "github.com/vanpelt/trr/internal/cmd"

func main() {
	cmd.Execute()
}
