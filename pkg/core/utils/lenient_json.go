// Package utils holds small decoding and rendering helpers shared by the
// fixture loader and the API.
package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// Strategy names which decoder accepted a document.
type Strategy string

const (
	StrategyJSON     Strategy = "json"
	StrategyRepaired Strategy = "repaired"
	StrategyHjson    Strategy = "hjson"
)

// ErrUndecodable is returned when no strategy could decode a document.
var ErrUndecodable = errors.New("document is not decodable as JSON, repaired JSON or Hjson")

// RepairJSON fixes the usual hand-editing mistakes in a JSON document:
// trailing commas, single quotes, unquoted keys, comments and unclosed
// brackets.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("repair json: %w", err)
	}
	return repaired, nil
}

// HjsonToJSON parses Hjson and re-encodes it as standard JSON.
func HjsonToJSON(data []byte) ([]byte, error) {
	var result interface{}
	if err := hjson.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse hjson: %w", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode hjson as json: %w", err)
	}
	return out, nil
}

// SmartDecode decodes data into v, trying in order:
// 1. Standard JSON
// 2. JSON repair
// 3. Hjson (most lenient)
func SmartDecode(data []byte, v interface{}) (Strategy, error) {
	// A UTF-8 BOM trips all three decoders.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	if err := json.Unmarshal(data, v); err == nil {
		return StrategyJSON, nil
	}

	if repaired, err := RepairJSON(string(data)); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return StrategyRepaired, nil
		}
	}

	if converted, err := HjsonToJSON(data); err == nil {
		if err := json.Unmarshal(converted, v); err == nil {
			return StrategyHjson, nil
		}
	}

	return "", ErrUndecodable
}
