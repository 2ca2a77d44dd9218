// Package llm builds prompts and calls the language model. The model is
// treated as an opaque text generator: prompt in, text that should be JSON out.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/ideafeed/internal/idea"
	"github.com/deusflow/ideafeed/internal/news"
)

// Temperature used by every provider.
const Temperature = 0.7

// Model is the only surface of the language model the pipeline relies on.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// maxHistoryInPrompt bounds the avoid-list to keep prompts small.
const maxHistoryInPrompt = 60

const systemPrompt = "Eres un estratega de contenido gamer para YouTube y TikTok en español. Respondes únicamente con un objeto JSON válido."

// Counts says how many primary and backup ideas to ask for.
type Counts struct {
	Primary int
	Backups int
}

// DefaultCounts matches idea.MaxBatch.
var DefaultCounts = Counts{Primary: idea.PrimaryIdeas, Backups: idea.BackupIdeas}

// NewsPrompt asks for ideas based on recent feed entries.
func NewsPrompt(entries []news.Entry, history []string, c Counts) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nEstas son noticias recientes de videojuegos (más recientes primero):\n\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s\n   Fuente: %s | Fecha: %s\n", i+1, e.Title, e.Source, e.PublishedAt.UTC().Format(time.DateOnly))
		if e.Link != "" {
			fmt.Fprintf(&b, "   Link: %s\n", e.Link)
		}
		if e.Snippet != "" {
			fmt.Fprintf(&b, "   Resumen: %s\n", e.Snippet)
		}
	}
	fmt.Fprintf(&b, "\nElige los %d juegos con más potencial viral y propón una idea de vídeo para cada uno, más %d ideas de respaldo.\n", c.Primary, c.Backups)
	b.WriteString("Usa la noticia como fuente: rellena \"fuente\" y \"fuente_url\" con el medio y el link.\n")
	writeAvoid(&b, history)
	writeShape(&b, c)
	return b.String()
}

// HistoryPrompt asks for fresh ideas using previously saved names as context.
func HistoryPrompt(history []string, c Counts) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nYa hemos hecho contenido sobre los juegos de la lista de abajo.\n")
	fmt.Fprintf(&b, "Propón %d ideas nuevas sobre juegos anunciados, en beta, demo, early access o lanzamiento reciente (prioriza MMO y juegos como servicio), más %d ideas de respaldo.\n", c.Primary, c.Backups)
	b.WriteString("Si no conoces la fecha exacta del anuncio deja \"fecha_anuncio\" vacío.\n")
	writeAvoid(&b, history)
	writeShape(&b, c)
	return b.String()
}

func writeAvoid(b *strings.Builder, history []string) {
	if len(history) == 0 {
		return
	}
	if len(history) > maxHistoryInPrompt {
		history = history[:maxHistoryInPrompt]
	}
	b.WriteString("\nNO repitas ninguno de estos juegos:\n")
	for _, name := range history {
		fmt.Fprintf(b, "- %s\n", name)
	}
}

func writeShape(b *strings.Builder, c Counts) {
	fmt.Fprintf(b, `
Responde SOLO con este JSON (sin markdown ni comentarios), con %d elementos en "%s" y %d en "%s":
{
  "%s": [
    {
      "%s": "nombre del juego",
      "%s": %s,
      "%s": %s,
      "%s": %s,
      "%s": %s,
      "%s": %s,
      "%s": número entero del %d al %d,
      "%s": año de lanzamiento previsto (número) o null,
      "%s": "resumen de la noticia",
      "%s": "gancho de los primeros 3 segundos",
      "%s": "por qué puede ser viral",
      "%s": "guion para short de 30-45 segundos",
      "%s": "guion para vídeo largo de 5-8 minutos",
      "%s": "título SEO de menos de 70 caracteres",
      "%s": "AAAA-MM-DD o cadena vacía",
      "%s": "nombre del medio",
      "%s": "https://..."
    }
  ],
  "%s": []
}
`,
		c.Primary, idea.KeyIdeas, c.Backups, idea.KeyBackups,
		idea.KeyIdeas,
		idea.KeyName,
		idea.KeyCategory, idea.Vocabulary(idea.Category("").Values()),
		idea.KeyPopularity, idea.Vocabulary(idea.Popularity("").Values()),
		idea.KeyTone, idea.Vocabulary(idea.Tone("").Values()),
		idea.KeyStatus, idea.Vocabulary(idea.Status("").Values()),
		idea.KeyGameType, idea.Vocabulary(idea.GameType("").Values()),
		idea.KeyViralScore, idea.MinViralScore, idea.MaxViralScore,
		idea.KeyYear,
		idea.KeySummary,
		idea.KeyHook,
		idea.KeyRationale,
		idea.KeyShortScript,
		idea.KeyLongScript,
		idea.KeySEOTitle,
		idea.KeyAnnounced,
		idea.KeySourceName,
		idea.KeySourceURL,
		idea.KeyBackups,
	)
}
