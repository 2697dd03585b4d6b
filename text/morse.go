package text

import "strings"

var morseCode = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..",
	'E': ".", 'F': "..-.", 'G': "--.", 'H': "....",
	'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.",
	'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..", ' ': "/",
}

var morseReverse = func() map[string]rune {
	m := make(map[string]rune, len(morseCode))
	for r, code := range morseCode {
		m[code] = r
	}
	return m
}()

// ToMorse converts letters and spaces to Morse code. Letters are separated by
// a single space and words by "/". Unsupported characters become empty codes,
// which FromMorse skips.
func ToMorse(s string) string {
	codes := make([]string, 0, len(s))
	for _, r := range strings.ToUpper(s) {
		codes = append(codes, morseCode[r])
	}
	return strings.Join(codes, " ")
}

// FromMorse converts Morse code produced by ToMorse back to upper-case text.
// Unknown codes are dropped.
func FromMorse(morse string) string {
	var sb strings.Builder
	for _, code := range strings.Split(morse, " ") {
		if r, ok := morseReverse[code]; ok {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
