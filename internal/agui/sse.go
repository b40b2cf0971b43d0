package agui

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ContentType is the media type of an agent's event stream.
const ContentType = "text/event-stream"

// maxFrameSize bounds a single data frame; tool arguments and snapshots can
// be large but never unbounded.
const maxFrameSize = 4 * 1024 * 1024

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
var ErrStreamingUnsupported = errors.New("response writer does not support flushing")

// EventWriter encodes events as server-sent event frames.
type EventWriter struct {
	w       io.Writer
	flusher http.Flusher
}

// NewEventWriter prepares w for streaming: it sets the SSE headers when w is
// an http.ResponseWriter and fails if the writer cannot flush.
func NewEventWriter(w io.Writer) (*EventWriter, error) {
	if rw, ok := w.(http.ResponseWriter); ok {
		rw.Header().Set("Content-Type", ContentType)
		rw.Header().Set("Cache-Control", "no-cache")
		rw.Header().Set("Connection", "keep-alive")
	}
	flusher, _ := w.(http.Flusher)
	if _, isHTTP := w.(http.ResponseWriter); isHTTP && flusher == nil {
		return nil, ErrStreamingUnsupported
	}
	return &EventWriter{w: w, flusher: flusher}, nil
}

// Write sends one event as a "data:" frame and flushes.
func (ew *EventWriter) Write(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(ew.w, "data: %s\n\n", data); err != nil {
		return err
	}
	if ew.flusher != nil {
		ew.flusher.Flush()
	}
	return nil
}

// EventReader decodes events from a server-sent event stream.
type EventReader struct {
	sc *bufio.Scanner
}

// NewEventReader wraps r.
func NewEventReader(r io.Reader) *EventReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	return &EventReader{sc: sc}
}

// Next returns the next event. It returns io.EOF once the stream ends
// cleanly. Multi-line data fields are joined with newlines; comments and
// "event:", "id:" and "retry:" fields are ignored.
func (er *EventReader) Next() (Event, error) {
	var data bytes.Buffer
	hasData := false

	for er.sc.Scan() {
		line := er.sc.Text()
		if line == "" {
			if hasData {
				return ParseEvent(data.Bytes())
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		if field != "data" {
			continue
		}
		value = strings.TrimPrefix(value, " ")
		if hasData {
			data.WriteByte('\n')
		}
		data.WriteString(value)
		hasData = true
	}

	if err := er.sc.Err(); err != nil {
		return Event{}, fmt.Errorf("reading event stream: %w", err)
	}
	if hasData {
		return ParseEvent(data.Bytes())
	}
	return Event{}, io.EOF
}
