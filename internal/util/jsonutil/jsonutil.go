package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// StripCodeFence removes a surrounding markdown fence such as ```json ... ```
// that models sometimes emit despite being asked for bare JSON.
func StripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		// Drop an info string like "json" on the opening fence line.
		if info := strings.TrimSpace(t[:nl]); !strings.ContainsAny(info, "{[") {
			t = t[nl+1:]
		}
	} else {
		t = strings.TrimPrefix(t, "json")
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// MarshalNoEscape encodes v into JSON without HTML escaping of <, > and &.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalNoEscapeIndent is MarshalNoEscape with indentation.
func MarshalNoEscapeIndent(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalFlex tries to unmarshal JSON bytes into v with best effort:
// 1) direct unmarshal
// 2) strip a markdown fence, unwrap a quoted payload and retry
func UnmarshalFlex(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	norm, err := normalize(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

var errUnparseable = errors.New("jsonutil: cannot parse JSON payload")

func normalize(raw []byte) ([]byte, error) {
	body := []byte(StripCodeFence(string(raw)))
	// Up to two levels of JSON-in-a-string.
	for i := 0; i < 3; i++ {
		if json.Valid(body) {
			var s string
			if err := json.Unmarshal(body, &s); err != nil {
				return body, nil
			}
			body = []byte(StripCodeFence(s))
			continue
		}
		break
	}
	if !json.Valid(body) {
		return nil, errUnparseable
	}
	return body, nil
}
