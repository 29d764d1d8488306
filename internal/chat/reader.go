package chat

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/grovetools/core/logging"
	"github.com/sirupsen/logrus"
)

// maxLineSize bounds a single JSONL record.
const maxLineSize = 1024 * 1024 // 1MB

// Reader decodes JSONL chat event streams.
type Reader struct {
	logger *logrus.Entry
}

// NewReader creates a new event reader.
func NewReader() *Reader {
	return &Reader{logger: logging.NewLogger("agchat.chat.reader")}
}

// ReadFile reads every event in a JSONL file.
func (r *Reader) ReadFile(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return r.ReadEvents(file)
}

// ReadFileFromOffset reads events starting at a byte offset and returns the
// offset just past the last complete line consumed. If the file is now
// shorter than offset, reading restarts at the beginning.
func (r *Reader) ReadFileFromOffset(path string, offset int64) ([]Event, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, offset, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("failed to stat file: %w", err)
	}
	// A file shorter than the offset was truncated or replaced; start over.
	if info.Size() < offset {
		r.logger.WithField("offset", offset).WithField("size", info.Size()).Debug("Event log shrank, rereading from start")
		offset = 0
	}

	if offset > 0 {
		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			return nil, offset, fmt.Errorf("failed to seek to offset %d: %w", offset, err)
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, offset, fmt.Errorf("failed to read from offset %d: %w", offset, err)
	}

	// A trailing partial line is left for the next read.
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return nil, offset, nil
	}

	events, err := r.ReadEvents(bytes.NewReader(data[:end+1]))
	return events, offset + int64(end+1), err
}

// ReadEvents decodes one event per line. Blank and malformed lines are
// skipped; events come back in stream order.
func (r *Reader) ReadEvents(in io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(in)

	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		event, err := DecodeEvent(line)
		if err != nil {
			r.logger.WithError(err).WithField("line", lineNum).Debug("Skipping chat event line")
			continue
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("scanner error: %w", err)
	}

	return events, nil
}
