package vehicle

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// brandEnums maps backend display names to catalog brand enums.
var brandEnums = map[string]string{
	"Volkswagen":           "VOLKSWAGEN",
	"Fiat":                 "FIAT",
	"Ford":                 "FORD",
	"Chevrolet":            "CHEVROLET",
	"Renault":              "RENAULT",
	"Toyota":               "TOYOTA",
	"Honda":                "HONDA",
	"Hyundai":              "HYUNDAI",
	"Nissan":               "NISSAN",
	"Peugeot":              "PEUGEOT",
	"Citroën":              "CITROEN",
	"Citroen":              "CITROEN",
	"Mercedes-Benz":        "MERCEDES_BENZ",
	"BMW":                  "BMW",
	"Audi":                 "AUDI",
	"Volvo":                "VOLVO",
	"Jeep":                 "JEEP",
	"Mitsubishi":           "MITSUBISHI",
	"Kia":                  "KIA",
	"Suzuki":               "SUZUKI",
	"Mazda":                "MAZDA",
	"Subaru":               "SUBARU",
	"Land Rover":           "LAND_ROVER",
	"Jaguar":               "JAGUAR",
	"Porsche":              "PORSCHE",
	"Ferrari":              "FERRARI",
	"Lamborghini":          "LAMBORGHINI",
	"Maserati":             "MASERATI",
	"Alfa Romeo":           "ALFA_ROMEO",
	"Mini":                 "MINI",
	"Smart":                "SMART",
	"RAM":                  "RAM",
	"Dodge":                "DODGE",
	"Chrysler":             "CHRYSLER",
	"Cadillac":             "CADILLAC",
	"Lincoln":              "LINCOLN",
	"Infiniti":             "INFINITI",
	"Acura":                "ACURA",
	"Lexus":                "LEXUS",
	"Tesla":                "TESLA",
	"BYD":                  "BYD",
	"Chery":                "CHERY",
	"JAC":                  "JAC",
	"Lifan":                "LIFAN",
	"TAC":                  "TAC",
	"Great Wall":           "GREAT_WALL",
	"CAOA Chery":           "CAOA_CHERY",
	"Iveco":                "IVECO",
	"Scania":               "SCANIA",
	"MAN":                  "MAN",
	"Mercedes-Benz Trucks": "MERCEDES_BENZ_TRUCKS",
}

var (
	enumsByLowerName = make(map[string]string, len(brandEnums))
	knownEnums       = make(map[string]struct{}, len(brandEnums))
)

func init() {
	for name, enum := range brandEnums {
		enumsByLowerName[strings.ToLower(name)] = enum
		knownEnums[enum] = struct{}{}
	}
}

// BrandEnum maps a brand display name ("Mercedes-Benz") to its catalog enum
// ("MERCEDES_BENZ"). Names are matched exactly, then case-insensitively, then
// after folding accents and separators.
func BrandEnum(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if enum, ok := brandEnums[name]; ok {
		return enum, true
	}
	if enum, ok := enumsByLowerName[strings.ToLower(name)]; ok {
		return enum, true
	}

	candidate := strings.Join(strings.Fields(strings.ToUpper(foldAccents(name))), "_")
	candidate = strings.ReplaceAll(candidate, "-", "_")
	if _, ok := knownEnums[candidate]; ok {
		return candidate, true
	}
	return "", false
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
