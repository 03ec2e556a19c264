package domain

import "strings"

// Language selects the vocabulary used for display labels.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

var statusLabels = map[Language]map[TripStatus]string{
	LanguageArabic: {
		TripStatusPending:   "في الانتظار",
		TripStatusAccepted:  "مقبول",
		TripStatusCompleted: "مكتمل",
		TripStatusCancelled: "ملغي",
	},
	LanguageEnglish: {
		TripStatusPending:   "Pending",
		TripStatusAccepted:  "Accepted",
		TripStatusCompleted: "Completed",
		TripStatusCancelled: "Cancelled",
	},
}

// ParseLanguage maps an Accept-Language style value to a supported language.
// Anything that does not start with "en" falls back to Arabic.
func ParseLanguage(s string) Language {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "en") {
		return LanguageEnglish
	}
	return LanguageArabic
}

// Label returns the display label of s. Unknown statuses render as-is.
func (s TripStatus) Label(lang Language) string {
	labels, ok := statusLabels[lang]
	if !ok {
		labels = statusLabels[LanguageArabic]
	}
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}
