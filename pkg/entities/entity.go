// Package entities extracts typed named entities from review text using a
// capability cascade: a full statistical tagger, a lightweight statistical
// tagger with non-essential stages disabled, and a gazetteer/regex fallback
// that is always available. The active backend is selected once at
// construction and cached for the process lifetime.
package entities

import "strings"

// Type classifies an extracted entity.
type Type string

const (
	TypePerson        Type = "Person"
	TypeOrganization  Type = "Organization"
	TypeLocation      Type = "Location"
	TypeDate          Type = "Date"
	TypeTime          Type = "Time"
	TypeMoney         Type = "Money"
	TypeQuantity      Type = "Quantity"
	TypeProduct       Type = "Product"
	TypeEvent         Type = "Event"
	TypeLanguage      Type = "Language"
	TypeLaw           Type = "Law"
	TypeGroup         Type = "Group"
	TypeNumber        Type = "Number"
	TypePercentage    Type = "Percentage"
	TypeMiscellaneous Type = "Miscellaneous"
)

// validTypes is the set of recognized entity types for validation.
var validTypes = map[Type]bool{
	TypePerson: true, TypeOrganization: true, TypeLocation: true,
	TypeDate: true, TypeTime: true, TypeMoney: true, TypeQuantity: true,
	TypeProduct: true, TypeEvent: true, TypeLanguage: true, TypeLaw: true,
	TypeGroup: true, TypeNumber: true, TypePercentage: true,
	TypeMiscellaneous: true,
}

// IsValidType checks if a string is a recognized entity type.
func IsValidType(s string) bool {
	return validTypes[Type(s)]
}

// labelTypes maps statistical tagger labels (Penn/OntoNotes style) to
// entity types. Unknown labels fall through to Miscellaneous.
var labelTypes = map[string]Type{
	"PERSON":   TypePerson,
	"PER":      TypePerson,
	"ORG":      TypeOrganization,
	"GPE":      TypeLocation,
	"LOC":      TypeLocation,
	"FAC":      TypeLocation,
	"DATE":     TypeDate,
	"TIME":     TypeTime,
	"MONEY":    TypeMoney,
	"QUANTITY": TypeQuantity,
	"PRODUCT":  TypeProduct,
	"EVENT":    TypeEvent,
	"LANGUAGE": TypeLanguage,
	"LAW":      TypeLaw,
	"NORP":     TypeGroup,
	"CARDINAL": TypeNumber,
	"ORDINAL":  TypeNumber,
	"PERCENT":  TypePercentage,
	"MISC":     TypeMiscellaneous,
}

// TypeForLabel maps a backend label to an entity type.
func TypeForLabel(label string) Type {
	if t, ok := labelTypes[strings.ToUpper(label)]; ok {
		return t
	}
	return TypeMiscellaneous
}

// Entity is a typed span of review text. Offsets are byte offsets into the
// text the tagger was given, after per-chunk correction.
type Entity struct {
	Text       string  `json:"text"`
	Type       Type    `json:"type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"extraction_method"`
}

// GroupByType buckets entities by type, deduplicating texts per bucket
// case-insensitively while preserving first-seen order and casing.
func GroupByType(ents []Entity) map[Type][]string {
	grouped := make(map[Type][]string)
	seen := make(map[Type]map[string]bool)

	for _, e := range ents {
		key := strings.ToLower(e.Text)
		if seen[e.Type] == nil {
			seen[e.Type] = make(map[string]bool)
		}
		if seen[e.Type][key] {
			continue
		}
		seen[e.Type][key] = true
		grouped[e.Type] = append(grouped[e.Type], e.Text)
	}
	return grouped
}
