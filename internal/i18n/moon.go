package i18n

// MoonPhases lists the provider phase names in lunar order.
var MoonPhases = []string{
	"New Moon",
	"Waxing Crescent",
	"First Quarter",
	"Waxing Gibbous",
	"Full Moon",
	"Waning Gibbous",
	"Last Quarter",
	"Waning Crescent",
}

var moonLabels = map[string]map[Language]string{
	"New Moon":        {PT: "Lua Nova", EN: "New Moon", ES: "Luna Nueva", JA: "新月"},
	"Waxing Crescent": {PT: "Lua Crescente", EN: "Waxing Crescent", ES: "Luna Creciente", JA: "三日月"},
	"First Quarter":   {PT: "Quarto Crescente", EN: "First Quarter", ES: "Cuarto Creciente", JA: "上弦の月"},
	"Waxing Gibbous":  {PT: "Crescente Gibosa", EN: "Waxing Gibbous", ES: "Gibosa Creciente", JA: "十三夜月"},
	"Full Moon":       {PT: "Lua Cheia", EN: "Full Moon", ES: "Luna Llena", JA: "満月"},
	"Waning Gibbous":  {PT: "Minguante Gibosa", EN: "Waning Gibbous", ES: "Gibosa Menguante", JA: "寝待月"},
	"Last Quarter":    {PT: "Quarto Minguante", EN: "Last Quarter", ES: "Cuarto Menguante", JA: "下弦の月"},
	"Waning Crescent": {PT: "Lua Minguante", EN: "Waning Crescent", ES: "Luna Menguante", JA: "有明月"},
}

// MoonLabel localizes a provider phase name. ok is false for unknown phases,
// in which case the raw phase is returned.
func MoonLabel(l Language, phase string) (label string, ok bool) {
	byLang, found := moonLabels[phase]
	if !found {
		return phase, false
	}
	return byLang[resolve(l)], true
}
