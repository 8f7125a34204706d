package output

import (
	"errors"
	"strings"

	"gmc/internal/api"
	"gmc/internal/service"
)

type sqlFormatter struct{}

// FormatEnvelope renders the scripts of a generation result, ready to be
// piped into a client. Other results have no SQL form.
func (sqlFormatter) FormatEnvelope(env api.Envelope) (string, error) {
	if !env.Success {
		return "", errors.New(env.Error)
	}
	art, ok := env.Data.(*service.Artifacts)
	if !ok || art == nil {
		return "", errors.New("sql format is only available for generated schemas")
	}

	var sb strings.Builder
	sb.WriteString("-- gmc schema\n")
	sb.WriteString("-- Review before running in production.\n\n")
	sb.WriteString(art.DDL)

	if art.BattlePassDDL != "" {
		sb.WriteString("\n-- Battle pass progress table\n")
		sb.WriteString(normalizeStatement(art.BattlePassDDL))
		sb.WriteString("\n")
	}
	if art.SeedPreview != "" {
		sb.WriteString("\n-- Demonstration rows\n")
		sb.WriteString(normalizeStatement(art.SeedPreview))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
