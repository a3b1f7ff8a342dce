// Package abiutil formats and validates contract ABI documents.
package abiutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Summary lists the callable surface of an ABI.
type Summary struct {
	Methods []string // canonical signatures, e.g. "transfer(address,uint256)"
	Events  []string
}

// Parse validates raw as a contract ABI and summarises it.
func Parse(raw []byte) (Summary, error) {
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return Summary{}, fmt.Errorf("invalid contract ABI: %w", err)
	}

	var s Summary
	for _, m := range parsed.Methods {
		s.Methods = append(s.Methods, m.Sig)
	}
	for _, e := range parsed.Events {
		s.Events = append(s.Events, e.Sig)
	}
	sort.Strings(s.Methods)
	sort.Strings(s.Events)
	return s, nil
}

// Indent pretty-prints a JSON document with two-space indentation. An empty
// document is rendered as null.
func Indent(raw []byte) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("null")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return buf.Bytes(), nil
}
