// Package idea turns untrusted model output into validated content ideas and
// maps them onto database records.
package idea

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/deusflow/ideafeed/internal/textutil"
)

// JSON keys the model is asked to produce.
const (
	KeyName        = "nombre"
	KeyCategory    = "categoria"
	KeyPopularity  = "popularidad"
	KeyTone        = "tono"
	KeyStatus      = "estado"
	KeyGameType    = "tipo_juego"
	KeyViralScore  = "score_viral"
	KeyYear        = "anio"
	KeySummary     = "resumen"
	KeyHook        = "hook"
	KeyRationale   = "por_que"
	KeyShortScript = "guion_corto"
	KeyLongScript  = "guion_largo"
	KeySEOTitle    = "titulo_seo"
	KeyAnnounced   = "fecha_anuncio"
	KeySourceName  = "fuente"
	KeySourceURL   = "fuente_url"
)

// Bounds and budgets applied by Sanitize.
const (
	MinViralScore      = 1
	MaxViralScore      = 10
	FallbackViralScore = 7

	MinYear = 1970
	MaxYear = 2100

	NameLen      = 200
	NarrativeLen = 1900
	ShortTextLen = 120
)

// Idea is a sanitized content idea. Every enumerated field holds a vocabulary
// member and ViralScore is within bounds.
type Idea struct {
	Name       string
	Category   Category
	Popularity Popularity
	Tone       Tone
	Status     Status
	GameType   GameType
	ViralScore int
	Year       *int

	Summary     string
	Hook        string
	Rationale   string
	ShortScript string
	LongScript  string
	SEOTitle    string

	AnnouncedAt *time.Time
	SourceName  string
	SourceURL   string
}

// Sanitize coerces an untrusted candidate into an Idea. It reports false when
// the candidate has no name. It never panics, whatever JSON values raw holds.
func Sanitize(raw map[string]any) (Idea, bool) {
	name := textutil.Truncate(text(raw[KeyName]), NameLen)
	if name == "" {
		return Idea{}, false
	}

	i := Idea{
		Name:       name,
		Category:   pick(raw[KeyCategory], Category("").Values(), FallbackCategory),
		Popularity: pick(raw[KeyPopularity], Popularity("").Values(), FallbackPopularity),
		Tone:       pick(raw[KeyTone], Tone("").Values(), FallbackTone),
		Status:     pick(raw[KeyStatus], Status("").Values(), FallbackStatus),
		GameType:   pick(raw[KeyGameType], GameType("").Values(), FallbackGameType),
		ViralScore: FallbackViralScore,

		Summary:     textutil.Truncate(text(raw[KeySummary]), NarrativeLen),
		Hook:        textutil.Truncate(text(raw[KeyHook]), NarrativeLen),
		Rationale:   textutil.Truncate(text(raw[KeyRationale]), NarrativeLen),
		ShortScript: textutil.Truncate(text(raw[KeyShortScript]), NarrativeLen),
		LongScript:  textutil.Truncate(text(raw[KeyLongScript]), NarrativeLen),
		SEOTitle:    textutil.Truncate(text(raw[KeySEOTitle]), ShortTextLen),
		SourceName:  textutil.Truncate(text(raw[KeySourceName]), ShortTextLen),
	}

	// "", null and non-numeric text keep the fallback rather than coercing to 0.
	if n, ok := number(raw[KeyViralScore]); ok {
		i.ViralScore = clampRound(n, MinViralScore, MaxViralScore)
	}

	if v, present := raw[KeyYear]; present && v != nil {
		if s, isString := v.(string); !isString || strings.TrimSpace(s) != "" {
			if n, ok := number(v); ok {
				y := clampRound(n, MinYear, MaxYear)
				i.Year = &y
			}
		}
	}

	if s := text(raw[KeyAnnounced]); s != "" {
		if t, err := dateparse.ParseIn(s, time.UTC); err == nil && !t.IsZero() {
			i.AnnouncedAt = &t
		}
	}

	if s := text(raw[KeySourceURL]); s != "" {
		if u, err := url.Parse(s); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			i.SourceURL = s
		}
	}

	return i, true
}

// text coerces a JSON value to a trimmed string. Objects and arrays yield "".
func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// number coerces a JSON number or numeric string to a finite float.
func number(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// clampRound rounds n into [lo, hi]; clamping happens before the int conversion.
func clampRound(n float64, lo, hi int) int {
	n = math.Round(n)
	if n < float64(lo) {
		return lo
	}
	if n > float64(hi) {
		return hi
	}
	return int(n)
}
