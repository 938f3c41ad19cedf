// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ris

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// separator is the RIS tag/value delimiter: two spaces, hyphen, space.
const separator = "  - "

// terminator marks the end of a record. The trailing value is empty but
// some tools write "ER  -" without the final space, so matching is on
// the prefix.
const terminator = "ER  -"

// Parse reads RIS text and returns the records in file order.
//
// A tag line is a two-character code followed by "  - " and a value.
// Any other non-blank line while a tag is active is a continuation:
// its trimmed text is space-joined onto the tag's last value, which
// reconstructs abstracts and titles wrapped across lines. Lines that fit
// neither shape are skipped so a partial or foreign file degrades to the
// records that do parse rather than failing outright.
//
// A read failure or a line exceeding the scanner's buffer aborts the
// scan mid-stream; Parse returns that error so callers never mistake a
// truncated read for a short file.
func Parse(r io.Reader) ([]Record, error) {
	var records []Record
	current := NewRecord()
	currentTag := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")

		switch {
		case strings.HasPrefix(line, terminator):
			// A terminator with nothing accumulated produces no record;
			// this guards against blank trailing sections.
			if len(current.Tags) > 0 {
				records = append(records, current)
			}
			current = NewRecord()
			currentTag = ""

		case isTagLine(line):
			tag := line[:2]
			value := strings.TrimSpace(line[len(separator)+2:])
			currentTag = tag
			current.Add(tag, value)

		case currentTag != "" && strings.TrimSpace(line) != "":
			// Continuation of the active tag's last value.
			vals := current.Tags[currentTag]
			if len(vals) > 0 {
				vals[len(vals)-1] += " " + strings.TrimSpace(line)
			} else {
				// Tag line had an empty value; the continuation becomes it.
				current.Add(currentTag, strings.TrimSpace(line))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("scanning RIS input: %w", err)
	}

	return records, nil
}

// isTagLine reports whether the line has the RIS tag shape: exactly two
// leading characters then the "  - " separator.
func isTagLine(line string) bool {
	return len(line) >= len(separator)+2 && line[2:2+len(separator)] == separator
}

// ParseFile reads and parses one RIS file. An unreadable file is a
// distinct I/O error for the caller; malformed content inside a readable
// file is not.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening RIS file %s: %w", path, err)
	}
	defer f.Close()
	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing RIS file %s: %w", path, err)
	}
	return records, nil
}
