package deck

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"cardclash/internal/game/card"
)

// fullCatalog responde qualquer ID válido com uma carta sintética.
type fullCatalog struct{}

func (f *fullCatalog) Lookup(_ context.Context, id int) (*card.Card, error) {
	entries := []card.CatalogEntry{{
		ID:         id,
		Name:       fmt.Sprintf("species-%d", id),
		Power:      id % 100,
		Resilience: (id * 3) % 100,
		Vitality:   (id * 7) % 100,
	}}
	static, err := card.NewStaticCatalog(entries)
	if err != nil {
		return nil, err
	}
	return static.Lookup(context.Background(), id)
}

// failAfterCatalog falha a partir da n-ésima consulta.
type failAfterCatalog struct {
	inner   fullCatalog
	failAt  int
	lookups int
}

func (f *failAfterCatalog) Lookup(ctx context.Context, id int) (*card.Card, error) {
	f.lookups++
	if f.lookups >= f.failAt {
		return nil, card.ErrCatalogUnavailable
	}
	return f.inner.Lookup(ctx, id)
}

func countByRarity(h *Hand) map[card.Rarity]int {
	counts := make(map[card.Rarity]int)
	for _, c := range h.Cards() {
		counts[c.Rarity()]++
	}
	return counts
}

func TestDealBattle_Composition(t *testing.T) {
	gen := NewGenerator(&fullCatalog{}, 42)

	first, second, err := gen.DealBattle(context.Background())
	require.NoError(t, err)

	want := map[card.Rarity]int{
		card.RarityCommon:    3,
		card.RarityUncommon:  1,
		card.RarityRare:      1,
		card.RarityUltraRare: 2,
		card.RarityLegendary: 3,
	}

	require.Equal(t, HandSize, first.Size())
	require.Equal(t, HandSize, second.Size())
	require.Equal(t, want, countByRarity(first))
	require.Equal(t, want, countByRarity(second))
}

func TestDealBattle_HandsAreDisjoint(t *testing.T) {
	gen := NewGenerator(&fullCatalog{}, 7)

	first, second, err := gen.DealBattle(context.Background())
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, c := range first.Cards() {
		require.False(t, seen[c.ID()], "duplicate id %d", c.ID())
		seen[c.ID()] = true
	}
	for _, c := range second.Cards() {
		require.False(t, seen[c.ID()], "id %d appears in both hands", c.ID())
		seen[c.ID()] = true
	}
	require.Len(t, seen, 2*HandSize)
}

func TestDealBattle_AllOrNothing(t *testing.T) {
	catalog := &failAfterCatalog{failAt: 15}
	gen := NewGenerator(catalog, 3)

	first, second, err := gen.DealBattle(context.Background())
	require.ErrorIs(t, err, card.ErrCatalogUnavailable)
	require.Nil(t, first)
	require.Nil(t, second)
}

func TestDealBattle_ConcurrentDealsOnSharedGenerator(t *testing.T) {
	// Um único Generator atende todas as batalhas, e joins concorrentes
	// chamam DealBattle em paralelo sem nenhum lock externo.
	gen := NewGenerator(&fullCatalog{}, 5)

	const deals = 8
	var wg sync.WaitGroup
	errs := make(chan error, deals)
	handsCh := make(chan *Hand, deals*2)

	for i := 0; i < deals; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first, second, err := gen.DealBattle(context.Background())
			if err != nil {
				errs <- err
				return
			}
			handsCh <- first
			handsCh <- second
		}()
	}
	wg.Wait()
	close(errs)
	close(handsCh)

	for err := range errs {
		require.NoError(t, err)
	}
	for h := range handsCh {
		require.Equal(t, HandSize, h.Size())
		require.Equal(t, map[card.Rarity]int{
			card.RarityCommon:    3,
			card.RarityUncommon:  1,
			card.RarityRare:      1,
			card.RarityUltraRare: 2,
			card.RarityLegendary: 3,
		}, countByRarity(h))
	}
}

func TestHand_PlayRemovesCard(t *testing.T) {
	gen := NewGenerator(&fullCatalog{}, 11)
	hand, _, err := gen.DealBattle(context.Background())
	require.NoError(t, err)

	target := hand.Cards()[0]
	require.True(t, hand.Contains(target.ID()))

	played, err := hand.Play(target.ID())
	require.NoError(t, err)
	require.Equal(t, target.ID(), played.ID())
	require.Equal(t, HandSize-1, hand.Size())
	require.False(t, hand.Contains(target.ID()))

	// Jogar a mesma carta de novo falha.
	_, err = hand.Play(target.ID())
	require.Error(t, err)
}
