package core

import "strings"

// MaxIdentifierLength is the MySQL limit for table, column and index names.
const MaxIdentifierLength = 64

// reservedPrefixes are table name prefixes that belong to the server itself.
// Destructive operations and generated tables never touch them.
var reservedPrefixes = []string{
	"information_schema",
	"performance_schema",
	"mysql",
	"sys_",
}

// Identifier is a table, column or index name that has passed Sanitize.
// It is the only kind of text the generators interpolate into SQL.
type Identifier struct {
	name string
}

// String returns the raw identifier text.
func (id Identifier) String() string {
	return id.name
}

// IsZero reports whether id was never assigned.
func (id Identifier) IsZero() bool {
	return id.name == ""
}

// Sanitize validates name as a SQL identifier. It accepts only [A-Za-z0-9_],
// rejects an empty name and a leading digit, and never rewrites its input:
// any character that would have to be stripped rejects the whole name.
func Sanitize(name string) (Identifier, error) {
	if name == "" {
		return Identifier{}, Errorf(CodeInvalidIdentifier, "identifier is empty")
	}
	if len(name) > MaxIdentifierLength {
		return Identifier{}, Errorf(CodeInvalidIdentifier, "identifier %q exceeds %d characters", name, MaxIdentifierLength)
	}
	if sanitized := stripInvalid(name); sanitized != name {
		return Identifier{}, Errorf(CodeInvalidIdentifier, "identifier %q contains characters outside [A-Za-z0-9_]", name)
	}
	if isDigit(name[0]) {
		return Identifier{}, Errorf(CodeInvalidIdentifier, "identifier %q must not start with a digit", name)
	}
	return Identifier{name: name}, nil
}

// MustIdentifier is Sanitize for constant names; it panics on invalid input.
func MustIdentifier(name string) Identifier {
	id, err := Sanitize(name)
	if err != nil {
		panic(err)
	}
	return id
}

// SanitizeTableName sanitizes name and additionally rejects server-owned
// prefixes and reserved words.
func SanitizeTableName(name string) (Identifier, error) {
	id, err := Sanitize(name)
	if err != nil {
		return Identifier{}, err
	}
	if IsReservedTableName(id.name) {
		return Identifier{}, Errorf(CodeInvalidIdentifier, "table name %q uses a reserved prefix", name)
	}
	if IsReservedWord(id.name) {
		return Identifier{}, Errorf(CodeInvalidIdentifier, "table name %q is a reserved word", name)
	}
	return id, nil
}

// IsReservedTableName reports whether name starts with a server-owned prefix.
func IsReservedTableName(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func stripInvalid(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; isIdentByte(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
