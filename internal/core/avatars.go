package core

import "strings"

// letterAvatars maps lowercase first letters to circled-letter glyphs.
var letterAvatars = map[rune]string{
	'a': "Ⓐ", 'b': "Ⓑ", 'c': "Ⓒ", 'd': "Ⓓ", 'e': "Ⓔ", 'f': "Ⓕ",
	'g': "Ⓖ", 'h': "Ⓗ", 'i': "Ⓘ", 'j': "Ⓙ", 'k': "Ⓚ", 'l': "Ⓛ",
	'm': "Ⓜ", 'n': "Ⓝ", 'o': "Ⓞ", 'p': "Ⓟ", 'q': "Ⓠ", 'r': "Ⓡ",
	's': "Ⓢ", 't': "Ⓣ", 'u': "Ⓤ", 'v': "Ⓥ", 'w': "Ⓦ", 'x': "Ⓧ",
	'y': "Ⓨ", 'z': "Ⓩ",
}

// genericAvatars are used when a letter glyph is unavailable or taken.
var genericAvatars = []string{"✿", "☗", "␥", "⌘", "〶", "☡", "〠", "❖", "◈", "◉"}

// AssignAvatar returns an avatar glyph for a username, preferring its first
// letter and falling back to generic glyphs. usedAvatars contains glyphs
// already assigned to other users.
func AssignAvatar(username string, usedAvatars map[string]struct{}) string {
	if usedAvatars == nil {
		usedAvatars = make(map[string]struct{})
	}

	name := strings.ToLower(strings.TrimSpace(username))
	if name != "" {
		if glyph, ok := letterAvatars[rune(name[0])]; ok {
			if _, taken := usedAvatars[glyph]; !taken {
				return glyph
			}
		}
	}

	for _, glyph := range genericAvatars {
		if _, taken := usedAvatars[glyph]; !taken {
			return glyph
		}
	}
	return genericAvatars[0]
}
