// Package faq serves the fixed question list shown by the help widget.
package faq

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Entry is one question and its answer.
type Entry struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

//go:embed questions.json
var raw []byte

// Load decodes the embedded list.
func Load() ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode faq: %w", err)
	}
	return entries, nil
}

// MustLoad is Load for program start-up.
func MustLoad() []Entry {
	entries, err := Load()
	if err != nil {
		panic(err)
	}
	return entries
}
