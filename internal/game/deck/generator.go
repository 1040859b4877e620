package deck

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"cardclash/internal/game/card"
)

// HandSize é o tamanho fixo da mão de batalha.
const HandSize = 10

// handComposition é a distribuição fixa de raridades de uma mão.
// É uma constante de design, não negociável por chamada. A soma dá HandSize.
var handComposition = []struct {
	Rarity card.Rarity
	Count  int
}{
	{card.RarityCommon, 3},
	{card.RarityUncommon, 1},
	{card.RarityRare, 1},
	{card.RarityUltraRare, 2},
	{card.RarityLegendary, 3},
}

// Generator distribui mãos consultando o catálogo injetado. Um único
// Generator atende todas as batalhas; o rng não é seguro para uso
// concorrente, então o sorteio de IDs é serializado pelo mutex.
type Generator struct {
	catalog card.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator cria o gerador com a semente dada.
func NewGenerator(catalog card.Catalog, seed uint64) *Generator {
	return &Generator{
		catalog: catalog,
		rng:     rand.New(rand.NewPCG(seed, 1)),
	}
}

// DealBattle sorteia e resolve as duas mãos de uma batalha de uma vez.
// As mãos são disjuntas entre si e cada uma segue a composição fixa.
// Tudo-ou-nada: se qualquer consulta ao catálogo falhar, nenhuma mão é
// entregue e o erro embrulha card.ErrCatalogUnavailable ou card.ErrNotFound.
func (g *Generator) DealBattle(ctx context.Context) (*Hand, *Hand, error) {
	const hands = 2

	// Sorteia IDs únicos por raridade para as duas mãos juntas, no mesmo
	// espírito do sorteio por faixas do deck original. O lock cobre só o
	// sorteio: as consultas ao catálogo acontecem fora dele.
	ids, err := g.drawIDs(hands)
	if err != nil {
		return nil, nil, err
	}

	// Resolve todos os IDs antes de montar qualquer mão.
	cards := make([]*card.Card, 0, len(ids))
	for _, id := range ids {
		c, err := g.catalog.Lookup(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("deal aborted at id %d: %w", id, err)
		}
		cards = append(cards, c)
	}

	// Alterna as cartas entre as duas mãos. Como os sorteios por raridade
	// vieram em blocos pares, cada mão recebe exatamente a composição fixa.
	first := make([]*card.Card, 0, HandSize)
	second := make([]*card.Card, 0, HandSize)
	for i, c := range cards {
		if i%2 == 0 {
			first = append(first, c)
		} else {
			second = append(second, c)
		}
	}

	return newHand(first), newHand(second), nil
}

func (g *Generator) drawIDs(hands int) ([]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]int, 0, hands*HandSize)
	for _, comp := range handComposition {
		min, max, ok := card.RarityRange(comp.Rarity)
		if !ok {
			return nil, fmt.Errorf("no id range for rarity %s", comp.Rarity)
		}

		picked := make(map[int]struct{}, comp.Count*hands)
		for len(picked) < comp.Count*hands {
			id := min + g.rng.IntN(max-min+1)
			picked[id] = struct{}{}
		}
		for id := range picked {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
