package command

import "strings"

// ParseResult holds the parsed verb and arguments from a text line.
type ParseResult struct {
	// Verb is the first word of the input, lowercased.
	Verb string
	// Args are the remaining words. Content ids are lowercase, so args are
	// lowercased too.
	Args []string
}

// Parse splits a text line into a verb and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank or a comment
// (starting with '#'), Verb is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ParseResult{}
	}

	fields := strings.Fields(strings.ToLower(line))
	res := ParseResult{Verb: fields[0]}
	if len(fields) > 1 {
		res.Args = fields[1:]
	}
	return res
}
