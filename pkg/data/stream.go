package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Record is one CSV row with its 1-based line number. A record with Err set
// is the last one: the read failed and the stream stops.
type Record struct {
	Line   int
	Fields []string
	Err    error
}

// StreamCSV streams the records of a CSV file through out, header first.
// Close the returned done chan to stop early. Malformed records are logged
// and skipped; any other read error ends the stream.
func StreamCSV(path string, out chan<- Record) (done chan struct{}, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	done = make(chan struct{})
	go func() {
		defer file.Close()
		streamRecords(bufio.NewReader(file), path, out, done)
	}()
	return done, nil
}

func streamRecords(r io.Reader, name string, out chan<- Record, done <-chan struct{}) {
	defer close(out)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	send := func(rec Record) bool {
		select {
		case <-done:
			return false
		case out <- rec:
			return true
		}
	}

	line := 0
	for {
		rec, err := reader.Read()
		line++
		if err == io.EOF {
			return
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			slog.Warn("skipping malformed record", "path", name, "line", line, "error", err)
			continue
		}
		if err != nil {
			send(Record{Line: line, Err: fmt.Errorf("reading %s: %w", name, err)})
			return
		}
		if !send(Record{Line: line, Fields: rec}) {
			return
		}
	}
}
