package idea

import (
	"fmt"
	"strings"

	"github.com/deusflow/ideafeed/internal/textutil"
)

// Category is the kind of news an idea is built on.
type Category string

const (
	CategoryAnnouncement Category = "Anuncio"
	CategoryTrailer      Category = "Tráiler"
	CategoryBetaDemo     Category = "Beta/Demo"
	CategoryEarlyAccess  Category = "Early Access"
	CategoryLaunch       Category = "Lanzamiento"
	CategoryUpdate       Category = "Actualización"
	CategoryRumor        Category = "Rumor"
)

// Popularity is the expected audience interest.
type Popularity string

const (
	PopularityHigh   Popularity = "Alta"
	PopularityMedium Popularity = "Media"
	PopularityLow    Popularity = "Baja"
)

// Tone is the emotional register of the content.
type Tone string

const (
	ToneHype        Tone = "Hype"
	ToneCuriosity   Tone = "Curiosidad"
	ToneNostalgia   Tone = "Nostalgia"
	ToneControversy Tone = "Polémica"
	ToneInformative Tone = "Informativo"
)

// Status is the release stage of the game.
type Status string

const (
	StatusAnnounced   Status = "Anunciado"
	StatusInDev       Status = "En desarrollo"
	StatusBeta        Status = "Beta"
	StatusEarlyAccess Status = "Early Access"
	StatusReleased    Status = "Lanzado"
)

// GameType is the broad kind of game.
type GameType string

const (
	GameTypeMMO         GameType = "MMO"
	GameTypeLiveService GameType = "Live Service"
	GameTypeMultiplayer GameType = "Multijugador"
	GameTypeSinglePlay  GameType = "Un jugador"
	GameTypeOther       GameType = "Otro"
)

// Fallbacks used when the model returns a value outside the vocabulary.
const (
	FallbackCategory   = CategoryAnnouncement
	FallbackPopularity = PopularityLow
	FallbackTone       = ToneInformative
	FallbackStatus     = StatusAnnounced
	FallbackGameType   = GameTypeOther
)

func (Category) Values() []Category {
	return []Category{CategoryAnnouncement, CategoryTrailer, CategoryBetaDemo, CategoryEarlyAccess, CategoryLaunch, CategoryUpdate, CategoryRumor}
}

func (Popularity) Values() []Popularity {
	return []Popularity{PopularityHigh, PopularityMedium, PopularityLow}
}

func (Tone) Values() []Tone {
	return []Tone{ToneHype, ToneCuriosity, ToneNostalgia, ToneControversy, ToneInformative}
}

func (Status) Values() []Status {
	return []Status{StatusAnnounced, StatusInDev, StatusBeta, StatusEarlyAccess, StatusReleased}
}

func (GameType) Values() []GameType {
	return []GameType{GameTypeMMO, GameTypeLiveService, GameTypeMultiplayer, GameTypeSinglePlay, GameTypeOther}
}

// pick returns the member of allowed matching raw (case and accent insensitive),
// or fallback when raw is not a string or matches nothing.
func pick[T ~string](raw any, allowed []T, fallback T) T {
	s, ok := raw.(string)
	if !ok {
		return fallback
	}
	key := textutil.FoldKey(s)
	if key == "" {
		return fallback
	}
	for _, v := range allowed {
		if textutil.FoldKey(string(v)) == key {
			return v
		}
	}
	return fallback
}

// Vocabulary renders allowed values as `"A" | "B"` for prompts.
func Vocabulary[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%q", string(v))
	}
	return strings.Join(parts, " | ")
}
