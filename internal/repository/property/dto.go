package property

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// descriptorRow is the JSON value stored per hash field.
type descriptorRow struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

func descriptorToValue(d domprop.Descriptor) (string, error) {
	b, err := json.Marshal(descriptorRow{ID: d.ID, Type: d.Type})
	if err != nil {
		return "", fmt.Errorf("marshal descriptor: %w", err)
	}
	return string(b), nil
}

func descriptorFromValue(v string) (domprop.Descriptor, error) {
	var row descriptorRow
	if err := json.Unmarshal([]byte(v), &row); err != nil {
		return domprop.Descriptor{}, fmt.Errorf("unmarshal descriptor: %w", err)
	}
	return domprop.NewDescriptor(row.ID, row.Type)
}
