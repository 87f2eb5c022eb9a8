package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// lineReader reads one line of interactive input at a time: a plain
// buffered reader for piped or non-tty input, GNU readline (history, line
// editing) when attached to a real terminal.
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

type directLineReader struct {
	r *bufio.Reader
}

func newDirectLineReader(r io.Reader) *directLineReader {
	return &directLineReader{r: bufio.NewReader(r)}
}

func (d *directLineReader) ReadLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (d *directLineReader) Close() error { return nil }

type interactiveLineReader struct {
	rl *readline.Instance
}

func newInteractiveLineReader() (*interactiveLineReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "zander> "})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &interactiveLineReader{rl: rl}, nil
}

func (i *interactiveLineReader) ReadLine() (string, error) {
	return i.rl.Readline()
}

func (i *interactiveLineReader) Close() error { return i.rl.Close() }
