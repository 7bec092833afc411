package main

import (
	"os"

	"github.com/uzeyirmammadli/catcare-sub001/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
