package app

// Language is one entry of the fixed supported-language list offered by the
// client UI.
type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// DefaultLanguage is the code for which no translation step applies.
const DefaultLanguage = "en"

var SupportedLanguages = []Language{
	{Code: "en", Label: "English"},
	{Code: "es", Label: "Spanish"},
	{Code: "fr", Label: "French"},
	{Code: "de", Label: "German"},
	{Code: "ja", Label: "Japanese"},
	{Code: "hi", Label: "Hindi"},
	{Code: "kn", Label: "Kannada"},
	{Code: "mr", Label: "Marathi"},
	{Code: "ml", Label: "Malayalam"},
	{Code: "ta", Label: "Tamil"},
	{Code: "te", Label: "Telugu"},
}

// languageLabel resolves a language code to its label; ok is false for codes
// outside the supported list.
func languageLabel(code string) (string, bool) {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return l.Label, true
		}
	}
	return "", false
}
