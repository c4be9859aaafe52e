package idioms

import "strings"

type fieldState int

const (
	fieldStart fieldState = iota
	inField
	inQuoted
	quoteInQuoted
)

// splitRow splits one dictionary line on tabs. A field opening with a
// double quote runs to the matching quote, "" inside it is a literal
// quote and text after the closing quote is kept as is. Quotes elsewhere
// are literal. An empty line has no fields.
//
// Quoted fields never span lines; an unterminated quote ends with the line.
func splitRow(line string) []string {
	if line == "" {
		return nil
	}

	var (
		fields []string
		field  strings.Builder
		state  = fieldStart
	)
	emit := func() {
		fields = append(fields, field.String())
		field.Reset()
		state = fieldStart
	}

	for _, r := range line {
		switch state {
		case fieldStart:
			switch r {
			case '"':
				state = inQuoted
			case '\t':
				emit()
			default:
				field.WriteRune(r)
				state = inField
			}
		case inField:
			if r == '\t' {
				emit()
			} else {
				field.WriteRune(r)
			}
		case inQuoted:
			if r == '"' {
				state = quoteInQuoted
			} else {
				field.WriteRune(r)
			}
		case quoteInQuoted:
			switch r {
			case '"':
				field.WriteRune(r)
				state = inQuoted
			case '\t':
				emit()
			default:
				field.WriteRune(r)
				state = inField
			}
		}
	}
	emit()
	return fields
}
