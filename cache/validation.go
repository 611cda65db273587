package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/insightly/insightly-go/models"
)

// errNotArray marks a main record whose dataset is not an array — a
// half-written cache shape. The updater skips such a key silently and
// leaves it as-is until the next full recompute replaces it.
var errNotArray = errors.New("main dataset is not an array")

// rawRecord splits the envelope from the dataset so the dataset's shape
// can be checked before committing to a concrete record type.
type rawRecord struct {
	Duration   string          `json:"duration"`
	Dataset    json.RawMessage `json:"dataset"`
	ComputedAt json.RawMessage `json:"computedAt"`
}

// ParseMainRecord decodes and validates a main cache record.
func ParseMainRecord(raw []byte) (*models.MainCacheRecord, error) {
	var envelope rawRecord
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed main cache record: %w", err)
	}

	dataset := bytes.TrimSpace(envelope.Dataset)
	if len(dataset) == 0 || dataset[0] != '[' {
		return nil, errNotArray
	}

	var rec models.MainCacheRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("malformed main cache record: %w", err)
	}
	return &rec, nil
}

// ParseOthersRecord decodes and validates an others cache record. The
// dataset must be an object of named dimension arrays.
func ParseOthersRecord(raw []byte) (*models.OthersCacheRecord, error) {
	var envelope rawRecord
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed others cache record: %w", err)
	}

	dataset := bytes.TrimSpace(envelope.Dataset)
	if len(dataset) == 0 || dataset[0] != '{' {
		return nil, fmt.Errorf("others dataset is not an object")
	}

	var rec models.OthersCacheRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("malformed others cache record: %w", err)
	}
	return &rec, nil
}

// ParseGoalsRecord decodes and validates a goals cache record.
func ParseGoalsRecord(raw []byte) (*models.GoalsCacheRecord, error) {
	var envelope rawRecord
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed goals cache record: %w", err)
	}

	dataset := bytes.TrimSpace(envelope.Dataset)
	if len(dataset) == 0 || dataset[0] != '[' {
		return nil, fmt.Errorf("goals dataset is not an array")
	}

	var rec models.GoalsCacheRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("malformed goals cache record: %w", err)
	}
	return &rec, nil
}
