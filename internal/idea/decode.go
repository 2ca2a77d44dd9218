package idea

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Keys of the candidate arrays in the model response, primary ideas first.
const (
	KeyIdeas   = "ideas"
	KeyBackups = "backups"
)

// DecodeError means the model response held no decodable JSON object.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("model response is not JSON: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeResponse parses the model response as a JSON object. When the text is
// not JSON as a whole (markdown fences, commentary) it retries with the span
// from the first '{' to the last '}'.
func DecodeResponse(text string) (map[string]any, error) {
	var obj map[string]any
	err := json.Unmarshal([]byte(strings.TrimSpace(text)), &obj)
	if err == nil && obj != nil {
		return obj, nil
	}
	if err == nil {
		err = errors.New("top-level value is not an object")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, &DecodeError{Raw: text, Err: err}
	}
	obj = nil
	if err2 := json.Unmarshal([]byte(text[start:end+1]), &obj); err2 != nil || obj == nil {
		if err2 == nil {
			err2 = errors.New("embedded value is not an object")
		}
		return nil, &DecodeError{Raw: text, Err: err2}
	}
	return obj, nil
}

// Candidates returns the raw idea objects of a decoded response: the "ideas"
// array followed by "backups". Elements that are not objects are skipped.
func Candidates(obj map[string]any) []map[string]any {
	var out []map[string]any
	for _, key := range []string{KeyIdeas, KeyBackups} {
		list, ok := obj[key].([]any)
		if !ok {
			continue
		}
		for _, v := range list {
			if m, ok := v.(map[string]any); ok {
				out = append(out, m)
			}
		}
	}
	return out
}
