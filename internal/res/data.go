package res

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"

	"github.com/gompdf/cardgrid/internal/layout"
)

// DecodeParticipants reads a JSON array of participant objects. When label
// names a character set the input is transcoded first. Without a label the
// encoding is sniffed: a byte order mark wins, valid UTF-8 is kept as is and
// anything else is read as Windows-1252.
func DecodeParticipants(r io.Reader, label string) ([]layout.Participant, error) {
	var (
		in  io.Reader = r
		err error
	)
	if label != "" {
		in, err = charset.NewReaderLabel(label, r)
		if err != nil {
			return nil, fmt.Errorf("charset %q: %w", label, err)
		}
	} else {
		in, err = charset.NewReader(r, "application/json")
		if err != nil {
			return nil, fmt.Errorf("detecting charset: %w", err)
		}
	}

	var participants []layout.Participant
	if err := json.NewDecoder(in).Decode(&participants); err != nil {
		return nil, fmt.Errorf("decoding participants: %w", err)
	}
	return participants, nil
}

// LoadParticipants reads a participant data file
func (l *Loader) LoadParticipants(path, label string) ([]layout.Participant, error) {
	r, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	if r.Type != ResourceTypeData && r.Type != ResourceTypeOther && r.Type != ResourceTypeUnknown {
		return nil, fmt.Errorf("%s: not a data file (%s)", path, r.MimeType)
	}
	ps, err := DecodeParticipants(bytes.NewReader(r.Data), label)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}

// ReadFile returns the raw contents of a local file or data URL
func (l *Loader) ReadFile(path string) ([]byte, error) {
	r, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return r.Data, nil
}
