package main

import (
	"fmt"
	"os"

	"chessdesk/ui"
)

func main() {
	if err := ui.RunChessDesk(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
