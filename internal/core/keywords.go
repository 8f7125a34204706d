package core

import (
	"strings"
	"sync"

	"github.com/pingcap/tidb/pkg/parser"
)

var (
	reservedWords     map[string]bool
	reservedWordsOnce sync.Once
)

// IsReservedWord reports whether name is a reserved SQL keyword, which
// cannot appear unquoted as a table or column name.
func IsReservedWord(name string) bool {
	reservedWordsOnce.Do(func() {
		reservedWords = make(map[string]bool)
		for _, kw := range parser.Keywords {
			if kw.Reserved {
				reservedWords[strings.ToUpper(kw.Word)] = true
			}
		}
	})
	return reservedWords[strings.ToUpper(name)]
}

// SanitizeColumn sanitizes name for use as an unquoted column name:
// Sanitize plus a reserved-keyword check.
func SanitizeColumn(name string) (Identifier, error) {
	id, err := Sanitize(name)
	if err != nil {
		return Identifier{}, err
	}
	if IsReservedWord(id.name) {
		return Identifier{}, Errorf(CodeInvalidIdentifier, "identifier %q is a reserved word", name)
	}
	return id, nil
}
