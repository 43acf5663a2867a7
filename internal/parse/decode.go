// Package parse turns raw provider text into typed task results. Decode is
// strict and reports why text was rejected; the ParseX helpers never fail and
// substitute the task's canned result instead.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoJSON  = errors.New("no JSON object in provider output")
	ErrInvalid = errors.New("provider output failed validation")
)

// Result is implemented by the pointer types of every task result.
type Result[T any] interface {
	*T
	Validate() error
}

// Decode strips markdown fences and surrounding prose, decodes the first JSON
// object in raw into T and validates it.
func Decode[T any, PT Result[T]](raw string) (T, error) {
	var out T

	body := cleanJSONString(raw)
	start := strings.IndexByte(body, '{')
	if start < 0 {
		return out, ErrNoJSON
	}

	dec := json.NewDecoder(strings.NewReader(body[start:]))
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("decode provider output: %w", err)
	}
	if err := PT(&out).Validate(); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return out, nil
}

func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	if i := strings.Index(input, "```"); i >= 0 {
		input = input[i+3:]
		input = strings.TrimPrefix(input, "json")
		if j := strings.Index(input, "```"); j >= 0 {
			input = input[:j]
		}
	}
	return strings.TrimSpace(input)
}
