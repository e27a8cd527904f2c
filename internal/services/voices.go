package services

// defaultVoice narrates posts whose language has no mapped voice.
const defaultVoice = "Joanna"

// narratorVoices maps a detected language code to the Polly voice that
// narrates the post title.
var narratorVoices = map[string]string{
	"en": "Joanna",   // English
	"fr": "Celine",   // French
	"es": "Conchita", // Spanish
	"de": "Marlene",  // German
	"it": "Carla",    // Italian
	"pt": "Vitoria",  // Portuguese
	"ja": "Mizuki",   // Japanese
	"ko": "Seoyeon",  // Korean
	"hi": "Aditi",    // Hindi
	"nl": "Lotte",    // Dutch
	"sv": "Astrid",   // Swedish
	"da": "Naja",     // Danish
	"ru": "Tatyana",  // Russian
	"tr": "Filiz",    // Turkish
	"zh": "Zhiyu",    // Chinese
	"pl": "Ewa",      // Polish
	"nb": "Liv",      // Norwegian
	"ar": "Zeina",    // Arabic
}

// voiceForLanguage returns the narrator voice for a language code, or
// empty when the language is unmapped. Synthesis falls back to
// defaultVoice for posts without a stored voice.
func voiceForLanguage(code string) string {
	return narratorVoices[code]
}
