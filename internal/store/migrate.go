package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/billbuddy/internal/model"
)

// ErrMalformed is returned when a payload has no list of bills.
var ErrMalformed = errors.New("malformed state: bills must be a list")

// upgrade moves a decoded document from version from to from+1.
type upgrade struct {
	from  int
	apply func(doc map[string]any)
}

// upgrades is applied in order; each step only runs when the document is at
// its from version.
var upgrades = []upgrade{
	{from: 1, apply: addBalances},
	{from: 2, apply: addRecurrence},
}

// Decode parses a saved or exported state document and upgrades it to the
// current schema. A version of 0 means "read it from the document"; documents
// without one are treated as version 1.
func Decode(data []byte, version int) (model.State, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return model.State{}, fmt.Errorf("decoding state: %w", err)
	}
	if doc == nil {
		return model.State{}, ErrMalformed
	}
	if _, ok := doc["bills"].([]any); !ok {
		return model.State{}, ErrMalformed
	}

	if version <= 0 {
		version = docVersion(doc)
	}
	if version > model.SchemaVersion {
		return model.State{}, fmt.Errorf("state version %d is newer than supported version %d", version, model.SchemaVersion)
	}
	for _, u := range upgrades {
		if version == u.from {
			u.apply(doc)
			version++
		}
	}
	doc["version"] = model.SchemaVersion

	upgraded, err := json.Marshal(doc)
	if err != nil {
		return model.State{}, fmt.Errorf("re-encoding state: %w", err)
	}
	var st model.State
	if err := json.Unmarshal(upgraded, &st); err != nil {
		return model.State{}, fmt.Errorf("decoding state: %w", err)
	}
	return st, nil
}

func docVersion(doc map[string]any) int {
	n, ok := doc["version"].(json.Number)
	if !ok {
		return 1
	}
	v, err := n.Int64()
	if err != nil || v < 1 {
		return 1
	}
	return int(v)
}

func eachBill(doc map[string]any, fn func(b map[string]any)) {
	bills, _ := doc["bills"].([]any)
	for _, raw := range bills {
		if b, ok := raw.(map[string]any); ok {
			fn(b)
		}
	}
}

// addBalances (v1 -> v2) introduces amountRemaining and status. Version 1
// also stored timestamps as epoch milliseconds.
func addBalances(doc map[string]any) {
	eachBill(doc, func(b map[string]any) {
		if _, ok := b["amountRemaining"]; !ok {
			b["amountRemaining"] = b["amount"]
		}
		if _, ok := b["status"]; !ok {
			status := model.StatusPending
			if scheduled, _ := b["scheduled"].(bool); scheduled {
				status = model.StatusScheduled
			}
			b["status"] = string(status)
		}
		for _, field := range []string{"createdAt", "updatedAt"} {
			if n, ok := b[field].(json.Number); ok {
				if ms, err := n.Int64(); err == nil {
					b[field] = time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
				}
			}
		}
	})
}

// addRecurrence (v2 -> v3) introduces recurring rules and the weighted
// prioritization flag.
func addRecurrence(doc map[string]any) {
	eachBill(doc, func(b map[string]any) {
		if _, ok := b["recurringRule"].(map[string]any); !ok {
			b["recurringRule"] = map[string]any{
				"interval":     string(model.IntervalNone),
				"autoGenerate": false,
			}
		}
	})
	if _, ok := doc["useWeightedPrioritization"].(bool); !ok {
		doc["useWeightedPrioritization"] = false
	}
	if _, ok := doc["reminders"].([]any); !ok {
		doc["reminders"] = []any{}
	}
}
