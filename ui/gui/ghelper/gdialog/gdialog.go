// Package gdialog wraps the native file chooser for PGN import/export.
package gdialog

import (
	"os"
	"path/filepath"

	"github.com/sqweek/dialog"
)

type Result struct {
	Path string
	Name string
	Data []byte
}

func OpenFile(title, filterName, ext string) (Result, error) {
	b := dialog.File().Title(title)
	if ext != "" {
		b = b.Filter(filterName, ext)
	}
	path, err := b.Load()
	if err != nil {
		return Result{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Path: path,
		Name: filepath.Base(path),
		Data: data,
	}, nil
}

// SaveFile asks for a destination and writes data there. The chosen
// path gains the extension if the user omitted it.
func SaveFile(title, filterName, ext string, data []byte) (string, error) {
	b := dialog.File().Title(title)
	if ext != "" {
		b = b.Filter(filterName, ext)
	}
	path, err := b.Save()
	if err != nil {
		return "", err
	}
	if ext != "" && filepath.Ext(path) == "" {
		path += "." + ext
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Canceled reports whether err is the user dismissing the chooser.
func Canceled(err error) bool {
	return err == dialog.ErrCancelled
}
