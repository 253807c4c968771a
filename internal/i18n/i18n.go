// Package i18n holds the fixed label tables for the supported dashboard languages.
package i18n

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Language is a two-letter dashboard language code.
type Language string

const (
	PT Language = "pt"
	EN Language = "en"
	ES Language = "es"
	JA Language = "ja"
)

// Default is used whenever no supported language can be negotiated.
const Default = EN

// Supported lists the dashboard languages in preference order for matching.
var Supported = []Language{EN, PT, ES, JA}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Portuguese,
	language.Spanish,
	language.Japanese,
})

// Valid reports whether l is a supported language.
func Valid(l Language) bool {
	for _, s := range Supported {
		if s == l {
			return true
		}
	}
	return false
}

// Parse maps a code such as "pt-BR" or "ja" to a supported language.
func Parse(code string) (Language, bool) {
	base := strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(base, "-_"); i >= 0 {
		base = base[:i]
	}
	l := Language(base)
	return l, Valid(l)
}

// Negotiate picks the language from an explicit code, falling back to an
// Accept-Language header and finally to Default.
func Negotiate(explicit, acceptLanguage string) Language {
	if l, ok := Parse(explicit); ok {
		return l
	}
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// Labels are the UI strings used around the calendar and banner.
type Labels struct {
	Close     string `json:"close"`
	Loading   string `json:"loading"`
	Prev      string `json:"prev"`
	Next      string `json:"next"`
	Connector string `json:"connector"`
	ReadMore  string `json:"read_more"`
	Error     string `json:"error"`
	MoonWatch string `json:"moon_loading"`
}

var weekDays = map[Language][7]string{
	PT: {"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"},
	EN: {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	ES: {"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"},
	JA: {"日", "月", "火", "水", "木", "金", "土"},
}

var months = map[Language][12]string{
	PT: {"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho", "Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"},
	EN: {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	ES: {"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio", "Julio", "Agosto", "Septiembre", "Outubro", "Noviembre", "Diciembre"},
	JA: {"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
}

// Short month names as rendered on the banner date badge (upper-cased, no dot).
var shortMonths = map[Language][12]string{
	PT: {"JAN", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ"},
	EN: {"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"},
	ES: {"ENE", "FEB", "MAR", "ABR", "MAY", "JUN", "JUL", "AGO", "SEPT", "OCT", "NOV", "DIC"},
	JA: {"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
}

var labels = map[Language]Labels{
	PT: {Close: "Fechar", Loading: "Carregando...", Prev: "Mês anterior", Next: "Próximo mês", Connector: "de", ReadMore: "Leia mais", Error: "Erro 🚀", MoonWatch: "Observando a lua..."},
	EN: {Close: "Close", Loading: "Loading...", Prev: "Previous month", Next: "Next month", Connector: "", ReadMore: "Read more", Error: "Error 🚀", MoonWatch: "Observing the moon..."},
	ES: {Close: "Cerrar", Loading: "Cargando...", Prev: "Mes anterior", Next: "Próximo mes", Connector: "de", ReadMore: "Leer más", Error: "Error 🚀", MoonWatch: "Observando la luna..."},
	JA: {Close: "閉じる", Loading: "読み込み中...", Prev: "前月", Next: "来月", Connector: "", ReadMore: "もっと読む", Error: "エラー 🚀", MoonWatch: "月を観察中..."},
}

func resolve(l Language) Language {
	if Valid(l) {
		return l
	}
	return Default
}

// WeekDays returns the Sunday-first weekday abbreviations.
func WeekDays(l Language) []string {
	d := weekDays[resolve(l)]
	return d[:]
}

// Months returns the twelve month names.
func Months(l Language) []string {
	m := months[resolve(l)]
	return m[:]
}

// MonthName returns the name of a 0-based month.
func MonthName(l Language, month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	return months[resolve(l)][month]
}

// UI returns the UI labels.
func UI(l Language) Labels {
	return labels[resolve(l)]
}

// MonthTitle renders the calendar heading, e.g. "Março de 2024" or "March 2024".
func MonthTitle(l Language, year, month int) string {
	l = resolve(l)
	if c := labels[l].Connector; c != "" {
		return fmt.Sprintf("%s %s %d", MonthName(l, month), c, year)
	}
	return fmt.Sprintf("%s %d", MonthName(l, month), year)
}

// FormatDayMonth renders the banner badge: two-digit day and short month.
func FormatDayMonth(l Language, date string) (day, month string, err error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	l = resolve(l)
	day = fmt.Sprintf("%02d", t.Day())
	if l == JA {
		day += "日"
	}
	return day, shortMonths[l][t.Month()-1], nil
}
