// Package voice maps recognized Tamil speech transcripts to the canonical
// command strings the rest of the app acts on.
package voice

import (
	"strconv"
	"strings"

	"uzhavan/utils"
)

// Phrase binds one spoken phrase to its canonical command.
type Phrase struct {
	Spoken  string `json:"spoken"`
	Command string `json:"command"`
}

// Category is an ordered phrase table for one feature area.
type Category struct {
	Name    string   `json:"name"`
	Phrases []Phrase `json:"phrases"`
}

// Commands lists the phrase tables in priority order: search wins over
// navigation, navigation over checkout, and so on. Matching is by substring
// containment, not exact match; both properties are load-bearing product
// behavior, so reordering or flattening these tables changes which command an
// ambiguous transcript resolves to.
var Commands = []Category{
	{
		Name: "search",
		Phrases: []Phrase{
			{"தக்காளி காண்பி", "search tomatoes"},
			{"அரிசி காண்பி", "search rice"},
			{"வாழைப்பழம் காண்பி", "search banana"},
			{"தேங்காய் காண்பி", "search coconut"},
		},
	},
	{
		Name: "navigation",
		Phrases: []Phrase{
			{"கார்ட்டை திற", "open cart"},
			{"முகப்புக்கு செல்", "go to home"},
			{"பக்கம் முன்னே செல்", "go back"},
			{"மேலே செல்", "scroll up"},
			{"கீழே செல்", "scroll down"},
		},
	},
	{
		Name: "checkout",
		Phrases: []Phrase{
			{"பணம் செலுத்து", "proceed to payment"},
			{"ஆர்டரை உறுதி செய்", "confirm order"},
			{"பட்டியலை காண்பி", "show invoice"},
		},
	},
	{
		Name: "products",
		Phrases: []Phrase{
			{"புதிய பொருள் சேர்", "add product"},
			{"படிவத்தை சமர்ப்பி", "submit form"},
			{"என் பொருட்களை காண்பி", "show my products"},
		},
	},
	{
		Name: "orders",
		Phrases: []Phrase{
			{"என் ஆர்டர்களை காண்பி", "show my orders"},
			{"புதிய ஆர்டர்களை காண்பி", "show incoming orders"},
			{"ஆர்டரை ரத்து செய்", "cancel order"},
		},
	},
}

// Dispatch resolves a transcript to a canonical command. The transcript is
// normalized (lower-cased, trimmed), then each category is scanned in priority
// order and the first phrase contained in the transcript wins. When nothing
// matches, the normalized transcript itself is returned so the caller can try
// free-form interpretation, and matched reports false.
func Dispatch(transcript string) (command string, matched bool) {
	t := utils.NormalizeTranscript(transcript)
	for _, cat := range Commands {
		for _, p := range cat.Phrases {
			if strings.Contains(t, p.Spoken) {
				return p.Command, true
			}
		}
	}
	return t, false
}

// SetValue strips a "set <field>" prefix from a free-form command and returns
// the remainder, e.g. SetValue("set name fresh okra", "set name") → "fresh
// okra", true.
func SetValue(command, prefix string) (string, bool) {
	if !strings.HasPrefix(command, prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(command, prefix)), true
}

// SetNumber is SetValue for numeric fields ("set price 40").
func SetNumber(command, prefix string) (float64, bool) {
	raw, ok := SetValue(command, prefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
