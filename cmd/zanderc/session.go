package main

import (
	"errors"
	"io"
	"os"
	"strings"
)

// runSession drives an interactive line-at-a-time REPL: each line is parsed
// independently against e's table, with its tree (or error) reported
// immediately. "QUIT" ends the session.
func runSession(e *engine) error {
	var lr lineReader
	var err error

	if *forceDirect || !isTTY(os.Stdin) {
		lr = newDirectLineReader(os.Stdin)
	} else {
		lr, err = newInteractiveLineReader()
		if err != nil {
			return err
		}
	}
	defer lr.Close()

	for {
		line, err := lr.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "QUIT") {
			return nil
		}

		if err := e.parseAndPrint(line); err != nil {
			reportParseError(err)
		}
	}
}

// isTTY reports whether f looks like an interactive terminal rather than a
// pipe or redirected file; a best-effort check since the toolkit has no
// dependency that probes this directly.
func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
