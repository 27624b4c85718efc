package main

import (
	"os"

	"ringkasan/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
