package main

import (
	"fmt"
	"os"
	exit "os"
)

type runner struct{}

func (runner) main() {
	os.Exit(3)
}

func helper() {
	os.Exit(2)
}

func main() {
	fmt.Println("starting")
	defer fmt.Println("stopping")

	if len(os.Args) > 3 {
		os.Exit(1) // want "direct os.Exit call in main function"
	}

	exit.Exit(4) // want "direct os.Exit call in main function"

	cleanup := func() {
		os.Exit(5)
	}
	cleanup()

	helper()
	runner{}.main()
	os.Exit(0) // want "direct os.Exit call in main function"
}
