package utils

// Fixed-key status messages surfaced to participants at the end of the
// submission chain. The "delivered" text deliberately avoids claiming the
// collector accepted the data: a form-endpoint send cannot be acknowledged,
// only dispatched.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":        "ok",
		"submit.delivered": "Your results were sent to the researcher. Thank you for participating!",
		"submit.saved":     "Your results could not be sent automatically and were saved as a file. Please send the file to the researcher.",
		"submit.failed":    "Your results could not be delivered or saved. Please contact the researcher.",
	},
	"de": {
		"health.ok":        "ok",
		"submit.delivered": "Ihre Ergebnisse wurden an die Studienleitung gesendet. Vielen Dank für Ihre Teilnahme!",
		"submit.saved":     "Ihre Ergebnisse konnten nicht automatisch gesendet werden und wurden als Datei gespeichert. Bitte senden Sie die Datei an die Studienleitung.",
		"submit.failed":    "Ihre Ergebnisse konnten weder gesendet noch gespeichert werden. Bitte kontaktieren Sie die Studienleitung.",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations["en"][key]; ok {
		return v
	}
	return key
}
