package main

import (
	"os"
)

func main() {
	if err := newRootCmd(openFirestore).Execute(); err != nil {
		os.Exit(1)
	}
}
