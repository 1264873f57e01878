// Package jsonl implements the JSON Lines transport convention: a stream in
// which every line is exactly one complete JSON document. Lines are split
// strictly on runs of carriage-return/line-feed characters, never on other
// whitespace (https://jsonlines.org).
package jsonl

import (
	"bufio"
	"io"

	"github.com/Javier162380/airbyte/pkg/json"
)

// MaxLineSize bounds a single JSON line. Records above this are a protocol
// violation, not a tuning knob.
const MaxLineSize = 16 << 20

// ScanCRLF is a bufio.SplitFunc that tokenizes on one-or-more CR/LF
// characters. Runs of delimiters yield no empty tokens.
func ScanCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && (data[start] == '\r' || data[start] == '\n') {
		start++
	}
	for i := start; i < len(data); i++ {
		if data[i] == '\r' || data[i] == '\n' {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF {
		if start == len(data) {
			return start, nil, nil
		}
		return len(data), data[start:], nil
	}
	// consume leading delimiters and wait for a full line
	return start, nil, nil
}

// NewScanner returns a scanner over r that yields one line per token.
func NewScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	scanner.Split(ScanCRLF)
	return scanner
}

// DecodeEach decodes every line of r into a fresh T and hands it to accept,
// in input order. A line that is not valid JSON for T is reported through
// malformed and skipped; the stream continues. An error from accept or from
// the underlying reader aborts and is returned.
func DecodeEach[T any](r io.Reader, accept func(*T) error, malformed func(line []byte)) error {
	scanner := NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		value := new(T)
		if err := json.Unmarshal(line, value); err != nil {
			if malformed != nil {
				malformed(line)
			}
			continue
		}
		if err := accept(value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
