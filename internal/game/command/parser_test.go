package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Equal(t, "", result.Verb)
	assert.Nil(t, result.Args)
}

func TestParse_Comment(t *testing.T) {
	assert.Equal(t, ParseResult{}, Parse("   # gather meadow"))
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("idle")
	assert.Equal(t, "idle", result.Verb)
	assert.Nil(t, result.Args)
}

func TestParse_Lowercase(t *testing.T) {
	result := Parse("HUNT Forest")
	assert.Equal(t, "hunt", result.Verb)
	assert.Equal(t, []string{"forest"}, result.Args)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	result := Parse("  equip   wooden_club \t weapon  ")
	assert.Equal(t, "equip", result.Verb)
	assert.Equal(t, []string{"wooden_club", "weapon"}, result.Args)
}

func TestParse_Property_VerbHasNoSpaces(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		line := rapid.String().Draw(rt, "line")
		r := Parse(line)
		if strings.ContainsAny(r.Verb, " \t\n") {
			rt.Fatalf("verb %q contains whitespace", r.Verb)
		}
		for _, a := range r.Args {
			if a == "" {
				rt.Fatal("empty arg")
			}
		}
	})
}
