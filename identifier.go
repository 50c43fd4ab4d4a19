package pgbridge

import (
	"fmt"
	"strings"
)

// maxIdentifierLen is the PostgreSQL limit of 63 bytes per name part.
const maxIdentifierLen = 63

// reservedWords is the fixed set of SQL keywords rejected as
// identifiers, compared case-insensitively. This set is part of the
// compatibility surface: adding a word is a breaking change for any
// caller whose schema uses it.
var reservedWords = map[string]struct{}{
	"select": {}, "insert": {}, "update": {}, "delete": {}, "drop": {},
	"create": {}, "alter": {}, "truncate": {}, "grant": {}, "revoke": {},
	"exec": {}, "execute": {}, "union": {}, "declare": {},
	"table": {}, "index": {}, "view": {}, "schema": {}, "database": {},
	"user": {}, "role": {},
	"from": {}, "where": {}, "join": {}, "inner": {}, "outer": {},
	"left": {}, "right": {}, "on": {}, "using": {},
	"and": {}, "or": {}, "not": {}, "in": {}, "exists": {}, "between": {},
	"like": {}, "ilike": {}, "is": {}, "null": {}, "true": {}, "false": {},
	"case": {}, "when": {}, "then": {}, "else": {}, "end": {}, "as": {},
	"order": {}, "by": {}, "group": {}, "having": {},
	"limit": {}, "offset": {}, "distinct": {}, "all": {}, "any": {}, "some": {},
}

// ValidateIdentifier validates a table or column name for use in SQL
// text. Names are either bare ("users") or schema-qualified with
// exactly one dot ("public.users"); each part must be non-empty, at
// most 63 bytes, start with an ASCII letter or underscore, continue
// with ASCII alphanumerics or underscores, and must not be a reserved
// SQL keyword, start with "pg_", or equal "information_schema"
// (all compared case-insensitively).
//
// Validation is the only injection defense: validated identifiers are
// interpolated into SQL text verbatim, everything else goes through
// $n placeholders.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidIdentifier)
	}

	if strings.Contains(name, ".") {
		parts := strings.Split(name, ".")
		if len(parts) != 2 {
			return fmt.Errorf("%w: %q must be in schema.name form", ErrInvalidIdentifier, name)
		}
		for _, part := range parts {
			if err := validateIdentifierPart(part); err != nil {
				return err
			}
		}
		return nil
	}

	return validateIdentifierPart(name)
}

// validateIdentifierPart validates a single dot-free name part.
func validateIdentifierPart(part string) error {
	if part == "" {
		return fmt.Errorf("%w: name part is empty", ErrInvalidIdentifier)
	}
	if len(part) > maxIdentifierLen {
		return fmt.Errorf("%w: %q exceeds %d bytes", ErrInvalidIdentifier, part, maxIdentifierLen)
	}

	for i := 0; i < len(part); i++ {
		c := part[i]
		switch {
		case c == '_':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return fmt.Errorf("%w: %q must start with a letter or underscore", ErrInvalidIdentifier, part)
			}
		default:
			return fmt.Errorf("%w: %q contains invalid character %q", ErrInvalidIdentifier, part, rune(c))
		}
	}

	lower := strings.ToLower(part)
	if strings.HasPrefix(lower, "pg_") {
		return fmt.Errorf("%w: %q references a system catalog", ErrInvalidIdentifier, part)
	}
	if lower == "information_schema" {
		return fmt.Errorf("%w: access to information_schema is not allowed", ErrInvalidIdentifier)
	}
	if _, reserved := reservedWords[lower]; reserved {
		return fmt.Errorf("%w: %q is a reserved SQL keyword", ErrInvalidIdentifier, part)
	}

	return nil
}
