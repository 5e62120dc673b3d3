// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"bytes"
	"encoding/json"
)

// ResourceRecord is one entry in the catalog's resources.json file.
//
// The JSON keys are NOT idiomatic Go naming ("Resource Text" has a space in it)
// because they are the historical keys of the deployed dataset. The struct tags
// must match them exactly: the submission workflow re-encodes the whole file on
// every accepted submission, and any key drift would show up as a spurious diff
// across every existing record in the pull request.
//
// Field order matters for the same reason — encoding/json emits object keys in
// struct-field order, so keeping Category → Resource Text → URL → Description
// makes an unchanged record re-encode to exactly the same bytes.
type ResourceRecord struct {
	Category    string `json:"Category"`
	Title       string `json:"Resource Text"`
	URL         string `json:"URL"`
	Description string `json:"Description"`
}

// datasetIndent is the indentation the deployed resources.json uses.
// Four spaces, matching how the file has always been formatted.
const datasetIndent = "    "

// DecodeDataset parses the raw resources.json bytes into an ordered record list.
// Order is preserved as stored: the catalog page groups by category itself,
// and the workflow appends at the end.
func DecodeDataset(data []byte) ([]ResourceRecord, error) {
	var records []ResourceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EncodeDataset serialises the record list back to the on-disk format:
// a 4-space-indented JSON array. DecodeDataset followed by EncodeDataset is
// byte-stable for a file already in this format, so a submission's diff is
// only ever the appended record.
//
// A json.Encoder rather than MarshalIndent because the default marshaller
// escapes &, <, and > as & and friends. The stored file has literal
// ampersands ("Guides & Cheat Sheets"), and escaping them would rewrite
// every such record in the diff.
func EncodeDataset(records []ResourceRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", datasetIndent)
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	// Encode appends a newline the stored file doesn't have.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
