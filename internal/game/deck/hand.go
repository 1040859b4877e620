package deck

import (
	"fmt"

	"cardclash/internal/game/card"
)

// Hand é o conjunto ordenado de cartas jogáveis de um participante.
// O tamanho é fixado na criação e só diminui: uma carta jogada nunca volta.
type Hand struct {
	cards []*card.Card
}

func newHand(cards []*card.Card) *Hand {
	return &Hand{cards: cards}
}

// Size retorna quantas cartas restam na mão.
func (h *Hand) Size() int {
	return len(h.cards)
}

// Cards retorna uma cópia da lista, na ordem em que foi distribuída.
// Cópia para que ninguém fora da sessão altere a mão canônica.
func (h *Hand) Cards() []*card.Card {
	out := make([]*card.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Contains diz se a carta ainda está na mão.
func (h *Hand) Contains(cardID int) bool {
	for _, c := range h.cards {
		if c.ID() == cardID {
			return true
		}
	}
	return false
}

// Play remove e retorna a carta pelo ID. Erro se ela não está na mão —
// ou porque nunca esteve, ou porque já foi jogada.
func (h *Hand) Play(cardID int) (*card.Card, error) {
	for i, c := range h.cards {
		if c.ID() == cardID {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			return c, nil
		}
	}
	return nil, fmt.Errorf("card %d is not in hand", cardID)
}
