package news

import "strings"

// onTopicKeywords mark gaming news worth turning into content: reveals, trailers,
// playtests, launches and online/live-service games. English and Spanish.
var onTopicKeywords = []string{
	// English
	"announce",
	"reveal",
	"trailer",
	"teaser",
	"demo",
	"early access",
	"early-access",
	"launch",
	"release date",
	"beta",
	"playtest",
	"mmo",
	"live service",
	"live-service",

	// Spanish
	"anuncia",
	"anuncio",
	"revela",
	"se presenta",
	"tráiler",
	"acceso anticipado",
	"lanzamiento",
	"lanza el",
	"lanza su",
	"estreno",
	"fecha de salida",
	"prueba abierta",
	"servicio en vivo",
	"multijugador masivo",
}

// IsOnTopic reports whether any keyword occurs in text, case-insensitively.
// A plain substring test: "mmo" also matches "MMORPG".
func IsOnTopic(text string) bool {
	text = strings.ToLower(text)
	for _, k := range onTopicKeywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Keywords returns a copy of the on-topic keyword list.
func Keywords() []string {
	out := make([]string, len(onTopicKeywords))
	copy(out, onTopicKeywords)
	return out
}
