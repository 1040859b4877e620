package card

// Card é um objeto de valor imutável. Depois de criado pelo catálogo,
// nenhum campo pode ser alterado — as batalhas apenas o referenciam.
type Card struct {
	id         int
	name       string
	rarity     Rarity
	power      int
	resilience int
	vitality   int
}

func (c *Card) ID() int         { return c.id }
func (c *Card) Name() string    { return c.name }
func (c *Card) Rarity() Rarity  { return c.rarity }
func (c *Card) Power() int      { return c.power }
func (c *Card) Resilience() int { return c.resilience }
func (c *Card) Vitality() int   { return c.vitality }

// Value retorna o valor numérico do atributo de comparação pedido.
// O segundo retorno é false para um atributo fora da enumeração.
func (c *Card) Value(attr Attribute) (int, bool) {
	switch attr {
	case AttributePower:
		return c.power, true
	case AttributeResilience:
		return c.resilience, true
	case AttributeVitality:
		return c.vitality, true
	}
	return 0, false
}

// ---- Construtor ----

func newCard(id int, name string, power, resilience, vitality int) (*Card, error) {
	card := &Card{
		id:         id,
		name:       name,
		rarity:     RarityForID(id),
		power:      power,
		resilience: resilience,
		vitality:   vitality,
	}

	validators := []cardValidator{
		validateID,
		validateName,
		validateAttributes,
	}

	for _, v := range validators {
		if err := v(card); err != nil {
			return nil, err
		}
	}

	return card, nil
}

func (c *Card) String() string {
	return c.name
}
