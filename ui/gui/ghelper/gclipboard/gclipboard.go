// Package gclipboard is a thin seam over the system clipboard,
// kept separate so scenes never import the platform package directly.
package gclipboard

import "github.com/atotto/clipboard"

func ReadAll() (string, error) {
	return clipboard.ReadAll()
}

func WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
