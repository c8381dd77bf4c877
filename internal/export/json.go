package export

import (
	"encoding/json"
)

// ToJSON formats a report as indented JSON.
func ToJSON(report *Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
