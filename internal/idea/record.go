package idea

import "time"

// Kind is the property shape a value is written as.
type Kind int

const (
	KindTitle Kind = iota
	KindRichText
	KindSelect
	KindNumber
	KindDate
	KindURL
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindRichText:
		return "rich_text"
	case KindSelect:
		return "select"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindURL:
		return "url"
	default:
		return "unknown"
	}
}

// Value is one typed cell of a Record. Text is used by title, rich text,
// select and URL kinds; Number and Date by their kinds.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Date   time.Time
}

// Column names in the target database.
const (
	ColName        = "Nombre"
	ColCategory    = "Categoría"
	ColPopularity  = "Popularidad"
	ColTone        = "Tono"
	ColStatus      = "Estado"
	ColGameType    = "Tipo de juego"
	ColViralScore  = "Score viral"
	ColYear        = "Año"
	ColSummary     = "Resumen"
	ColHook        = "Hook"
	ColRationale   = "Por qué"
	ColShortScript = "Guion corto"
	ColLongScript  = "Guion largo"
	ColSEOTitle    = "Título SEO"
	ColAnnounced   = "Fecha anuncio"
	ColSourceName  = "Fuente"
	ColSourceURL   = "Link fuente"
)

// Column describes one column of the default schema.
type Column struct {
	Name string
	Kind Kind
}

// Schema lists every column an Idea can fill, in display order.
var Schema = []Column{
	{ColName, KindTitle},
	{ColCategory, KindSelect},
	{ColPopularity, KindSelect},
	{ColTone, KindSelect},
	{ColStatus, KindSelect},
	{ColGameType, KindSelect},
	{ColViralScore, KindNumber},
	{ColYear, KindNumber},
	{ColSummary, KindRichText},
	{ColHook, KindRichText},
	{ColRationale, KindRichText},
	{ColShortScript, KindRichText},
	{ColLongScript, KindRichText},
	{ColSEOTitle, KindRichText},
	{ColAnnounced, KindDate},
	{ColSourceName, KindRichText},
	{ColSourceURL, KindURL},
}

// Record maps column names to values for one row.
type Record map[string]Value

// ToRecord maps an idea onto columns. Absent optional fields and empty text
// produce no entry, so a missing date is never written as an empty placeholder.
func ToRecord(i Idea) Record {
	r := Record{
		ColName:       {Kind: KindTitle, Text: i.Name},
		ColCategory:   {Kind: KindSelect, Text: string(i.Category)},
		ColPopularity: {Kind: KindSelect, Text: string(i.Popularity)},
		ColTone:       {Kind: KindSelect, Text: string(i.Tone)},
		ColStatus:     {Kind: KindSelect, Text: string(i.Status)},
		ColGameType:   {Kind: KindSelect, Text: string(i.GameType)},
		ColViralScore: {Kind: KindNumber, Number: float64(i.ViralScore)},
	}

	if i.Year != nil {
		r[ColYear] = Value{Kind: KindNumber, Number: float64(*i.Year)}
	}

	for col, s := range map[string]string{
		ColSummary:     i.Summary,
		ColHook:        i.Hook,
		ColRationale:   i.Rationale,
		ColShortScript: i.ShortScript,
		ColLongScript:  i.LongScript,
		ColSEOTitle:    i.SEOTitle,
		ColSourceName:  i.SourceName,
	} {
		if s != "" {
			r[col] = Value{Kind: KindRichText, Text: s}
		}
	}

	if i.AnnouncedAt != nil {
		r[ColAnnounced] = Value{Kind: KindDate, Date: *i.AnnouncedAt}
	}
	if i.SourceURL != "" {
		r[ColSourceURL] = Value{Kind: KindURL, Text: i.SourceURL}
	}
	return r
}

// Restrict returns the subset of r whose columns exist in columns.
func (r Record) Restrict(columns map[string]bool) Record {
	out := make(Record, len(r))
	for name, v := range r {
		if columns[name] {
			out[name] = v
		}
	}
	return out
}

// Names returns the record's column names in Schema order.
func (r Record) Names() []string {
	names := make([]string, 0, len(r))
	for _, c := range Schema {
		if _, ok := r[c.Name]; ok {
			names = append(names, c.Name)
		}
	}
	return names
}
