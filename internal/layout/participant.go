package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Well-known participant keys
const (
	KeyPortrait  = "potrait"
	KeyTableData = "table_data"
	KeyName      = "name"
)

// Placeholder is shown for fields a participant does not carry
const Placeholder = "-"

// Participant is one input record. Values are usually strings but numbers
// and booleans decoded from JSON are accepted and stringified.
type Participant map[string]any

// TableEntry is one key/value pair of a participant's table
type TableEntry struct {
	Key   string
	Value string
}

// TableData is an ordered key/value table. Participants decoded from JSON
// carry their table_data in this form so the document order survives.
type TableData []TableEntry

// Value returns the display value of key, or Placeholder if absent
func (p Participant) Value(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return Placeholder
	}
	return stringify(v)
}

// Portrait returns the trimmed image reference, or "" if there is none
func (p Participant) Portrait() string {
	s, _ := p[KeyPortrait].(string)
	return strings.TrimSpace(s)
}

// Label identifies the participant in log messages
func (p Participant) Label() string {
	if name, ok := p[KeyName]; ok && name != nil {
		return stringify(name)
	}
	if img := p.Portrait(); img != "" {
		return img
	}
	return "<unnamed>"
}

// UnmarshalJSON decodes a participant object, keeping the key order of a
// table_data object.
func (p *Participant) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Participant, len(raw))
	for k, msg := range raw {
		if k == KeyTableData {
			trimmed := bytes.TrimSpace(msg)
			if len(trimmed) > 0 && trimmed[0] == '{' {
				table, err := decodeOrderedTable(trimmed)
				if err != nil {
					return fmt.Errorf("table_data: %w", err)
				}
				out[k] = table
				continue
			}
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		out[k] = v
	}
	*p = out
	return nil
}

// decodeOrderedTable decodes a flat JSON object into TableData in document order
func decodeOrderedTable(data []byte) (TableData, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var table TableData
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		table = append(table, TableEntry{Key: key, Value: stringify(v)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return table, nil
}

// tableEntries converts the accepted table_data representations into
// ordered entries. Native maps are ordered by key.
func tableEntries(raw any) (TableData, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case TableData:
		return t, nil
	case []TableEntry:
		return TableData(t), nil
	case string:
		if t == "" {
			return nil, nil
		}
		return decodeOrderedTable([]byte(t))
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(TableData, 0, len(keys))
		for _, k := range keys {
			out = append(out, TableEntry{Key: k, Value: t[k]})
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(TableData, 0, len(keys))
		for _, k := range keys {
			out = append(out, TableEntry{Key: k, Value: stringify(t[k])})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported table_data type %T", raw)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}
