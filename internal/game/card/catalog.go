package card

import (
	"context"
	"errors"
	"fmt"
)

// O catálogo de atributos é um colaborador externo injetado: hoje um banco
// público de espécies, amanhã qualquer tabela estática. O gerador de mãos
// não sabe como ele é populado.

var (
	// ErrNotFound indica um ID que o catálogo não conhece.
	ErrNotFound = errors.New("card not found in catalog")

	// ErrCatalogUnavailable indica que o catálogo não pôde ser consultado.
	// Quem estiver montando uma mão deve abortar tudo — nunca entregar
	// uma mão parcial.
	ErrCatalogUnavailable = errors.New("card catalog unavailable")
)

// Catalog resolve um ID de espécie para a carta imutável correspondente.
type Catalog interface {
	Lookup(ctx context.Context, id int) (*Card, error)
}

// ============================================================================
// Catálogo estático em memória
// ============================================================================

// StaticCatalog serve cartas de uma tabela fixa. Usado nos testes e nos
// binários de demonstração que não querem depender da API de espécies.
type StaticCatalog struct {
	cards map[int]*Card
}

// NewStaticCatalog monta o catálogo a partir das entradas dadas.
func NewStaticCatalog(entries []CatalogEntry) (*StaticCatalog, error) {
	cards := make(map[int]*Card, len(entries))
	for _, e := range entries {
		c, err := newCard(e.ID, e.Name, e.Power, e.Resilience, e.Vitality)
		if err != nil {
			return nil, err
		}
		if _, dup := cards[e.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog entry for id %d", e.ID)
		}
		cards[e.ID] = c
	}
	return &StaticCatalog{cards: cards}, nil
}

// CatalogEntry é a forma bruta de uma carta antes da validação.
type CatalogEntry struct {
	ID         int
	Name       string
	Power      int
	Resilience int
	Vitality   int
}

func (s *StaticCatalog) Lookup(_ context.Context, id int) (*Card, error) {
	c, ok := s.cards[id]
	if !ok {
		return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return c, nil
}
