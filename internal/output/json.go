package output

import (
	"encoding/json"

	"gmc/internal/api"
)

type jsonFormatter struct{}

// FormatEnvelope renders the envelope as indented JSON.
func (jsonFormatter) FormatEnvelope(env api.Envelope) (string, error) {
	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
