package card

// Rarity é uma enumeração fechada. A raridade de uma carta é derivada
// do ID da espécie no banco público, usando as mesmas faixas do deck
// original do jogo.
type Rarity string

const (
	RarityLegendary Rarity = "LEGENDARY"
	RarityUltraRare Rarity = "ULTRA_RARE"
	RarityRare      Rarity = "RARE"
	RarityUncommon  Rarity = "UNCOMMON"
	RarityCommon    Rarity = "COMMON"
)

// Faixas de ID por raridade. O catálogo de espécies vai de 1 a 1025.
type rarityRange struct {
	Min, Max int
}

var rarityRanges = map[Rarity]rarityRange{
	RarityLegendary: {Min: 1, Max: 150},
	RarityUltraRare: {Min: 151, Max: 386},
	RarityRare:      {Min: 387, Max: 649},
	RarityUncommon:  {Min: 650, Max: 850},
	RarityCommon:    {Min: 851, Max: 1025},
}

// MaxCatalogID é o maior ID de espécie conhecido pelo catálogo.
const MaxCatalogID = 1025

// RarityForID devolve a raridade correspondente ao ID da espécie.
func RarityForID(id int) Rarity {
	switch {
	case id <= rarityRanges[RarityLegendary].Max:
		return RarityLegendary
	case id <= rarityRanges[RarityUltraRare].Max:
		return RarityUltraRare
	case id <= rarityRanges[RarityRare].Max:
		return RarityRare
	case id <= rarityRanges[RarityUncommon].Max:
		return RarityUncommon
	default:
		return RarityCommon
	}
}

// RarityRange expõe a faixa de IDs de uma raridade para o gerador de mãos.
func RarityRange(r Rarity) (min, max int, ok bool) {
	rr, found := rarityRanges[r]
	if !found {
		return 0, 0, false
	}
	return rr.Min, rr.Max, true
}
