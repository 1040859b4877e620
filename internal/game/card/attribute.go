package card

import "math/rand/v2"

// Attribute é o campo numérico usado para decidir uma rodada.
// Enumeração fechada: power, resilience, vitality.
type Attribute string

const (
	AttributePower      Attribute = "power"
	AttributeResilience Attribute = "resilience"
	AttributeVitality   Attribute = "vitality"
)

// Attributes lista a enumeração na ordem canônica.
var Attributes = []Attribute{AttributePower, AttributeResilience, AttributeVitality}

// RandomAttribute sorteia um atributo uniformemente para a próxima rodada.
func RandomAttribute(r *rand.Rand) Attribute {
	return Attributes[r.IntN(len(Attributes))]
}

// ValidAttribute diz se o valor pertence à enumeração.
func ValidAttribute(a Attribute) bool {
	for _, attr := range Attributes {
		if attr == a {
			return true
		}
	}
	return false
}
