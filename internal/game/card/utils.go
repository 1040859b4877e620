package card

import "fmt"

// Tipo para funções de validação
type cardValidator func(*Card) error

func validateID(c *Card) error {
	if c.id < 1 || c.id > MaxCatalogID {
		return fmt.Errorf("invalid card id: %d (must be 1–%d)", c.id, MaxCatalogID)
	}
	return nil
}

func validateName(c *Card) error {
	if c.name == "" {
		return fmt.Errorf("invalid card %d: empty display name", c.id)
	}
	return nil
}

func validateAttributes(c *Card) error {
	if c.power < 0 || c.resilience < 0 || c.vitality < 0 {
		return fmt.Errorf("invalid card %d: negative attribute (power=%d resilience=%d vitality=%d)",
			c.id, c.power, c.resilience, c.vitality)
	}
	return nil
}
