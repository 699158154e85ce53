package assistant

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// completionChunk is the parsed shape of one data frame. Only the first
// choice's incremental content is consumed.
type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Decoder incrementally reassembles assistant text out of a chunked
// newline-delimited frame stream. It is not safe for concurrent use;
// every exchange gets its own Decoder.
//
// Frames are processed only once their terminating newline has arrived.
// A data frame whose payload fails to parse is assumed to be split
// across chunk boundaries: the line is pushed back with its newline
// restored and decoding pauses until more bytes arrive, so no payload
// bytes are ever dropped.
type Decoder struct {
	buf  []byte
	done bool
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Done reports whether the completion sentinel has been seen.
func (d *Decoder) Done() bool {
	return d.done
}

// Feed appends a chunk of bytes and returns the text deltas that became
// decodable. It returns done=true once the [DONE] sentinel is reached;
// any bytes after the sentinel are ignored.
func (d *Decoder) Feed(chunk []byte) (deltas []string, done bool) {
	if d.done {
		return nil, true
	}

	d.buf = append(d.buf, chunk...)

	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			return deltas, false
		}

		line := string(d.buf[:idx])
		d.buf = d.buf[idx+1:]

		line = strings.TrimSuffix(line, "\r")

		if strings.HasPrefix(line, ":") || strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		payload := strings.TrimSpace(line[len(dataPrefix):])
		if payload == doneSentinel {
			d.done = true
			d.buf = nil
			return deltas, true
		}

		var parsed completionChunk
		if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
			// Likely a payload split across network reads: restore the
			// line and wait for the rest.
			d.buf = append([]byte(line+"\n"), d.buf...)
			return deltas, false
		}

		if len(parsed.Choices) > 0 {
			if content := parsed.Choices[0].Delta.Content; content != "" {
				deltas = append(deltas, content)
			}
		}
	}
}
