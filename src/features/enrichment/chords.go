package enrichment

import (
	"fmt"
	"strings"

	"github.com/gosimple/unidecode"
)

// Progression is a suggested chord progression in a given key.
type Progression struct {
	Key     string
	Chords  []string
	Pattern string
}

// String renders the progression the way it is stored on a song,
// e.g. "C: C - Am - F - G (I-vi-IV-V)".
func (p Progression) String() string {
	return fmt.Sprintf("%s: %s (%s)", p.Key, strings.Join(p.Chords, " - "), p.Pattern)
}

const (
	majorPattern = "I-vi-IV-V"
	minorPattern = "i-VI-III-VII"
)

// keyNames maps pitch classes 0..11 to key names.
var keyNames = []string{"C", "Db", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// progressions holds the I-vi-IV-V progression per major key and the
// i-VI-III-VII progression per minor key.
var progressions = map[string][]string{
	"C":  {"C", "Am", "F", "G"},
	"G":  {"G", "Em", "C", "D"},
	"D":  {"D", "Bm", "G", "A"},
	"A":  {"A", "F#m", "D", "E"},
	"E":  {"E", "C#m", "A", "B"},
	"B":  {"B", "G#m", "E", "F#"},
	"F#": {"F#", "D#m", "B", "C#"},
	"F":  {"F", "Dm", "Bb", "C"},
	"Bb": {"Bb", "Gm", "Eb", "F"},
	"Eb": {"Eb", "Cm", "Ab", "Bb"},
	"Ab": {"Ab", "Fm", "Db", "Eb"},
	"Db": {"Db", "Bbm", "Gb", "Ab"},

	"Am":  {"Am", "F", "C", "G"},
	"Em":  {"Em", "C", "G", "D"},
	"Bm":  {"Bm", "G", "D", "A"},
	"F#m": {"F#m", "D", "A", "E"},
	"C#m": {"C#m", "A", "E", "B"},
	"G#m": {"G#m", "E", "B", "F#"},
	"D#m": {"D#m", "B", "F#", "C#"},
	"Dm":  {"Dm", "Bb", "F", "C"},
	"Gm":  {"Gm", "Eb", "Bb", "F"},
	"Cm":  {"Cm", "Ab", "Eb", "Bb"},
	"Fm":  {"Fm", "Db", "Ab", "Eb"},
	"Bbm": {"Bbm", "Gb", "Db", "Ab"},
}

// KeyName converts provider audio features into a key name, appending
// "m" for minor mode. Returns "" when the key is out of range.
func KeyName(key, mode int) string {
	if key < 0 || key >= len(keyNames) {
		return ""
	}
	name := keyNames[key]
	if mode == 0 {
		name += "m"
	}
	return name
}

// DetectKey guesses a key from the song name and artist when no audio
// features are available. The match is a mood heuristic over the
// ASCII-folded text.
func DetectKey(name, artist string) string {
	text := strings.ToLower(unidecode.Unidecode(name + " " + artist))
	switch {
	case containsAny(text, "blue", "sad", "cry", "tear", "lonely"):
		return "Am"
	case containsAny(text, "happy", "bright", "sun", "joy"):
		return "G"
	case containsAny(text, "rock", "metal", "thunder", "fire"):
		return "E"
	case containsAny(text, "country", "folk", "home", "road"):
		return "G"
	case containsAny(text, "jazz", "smooth", "night"):
		return "F"
	}
	return "C"
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// GenerateChords builds the stored chords string for a key. Unknown keys
// fall back to C.
func GenerateChords(key string) string {
	chords, ok := progressions[key]
	if !ok {
		key = "C"
		chords = progressions[key]
	}
	pattern := majorPattern
	if strings.HasSuffix(key, "m") {
		pattern = minorPattern
	}
	return Progression{Key: key, Chords: chords, Pattern: pattern}.String()
}
