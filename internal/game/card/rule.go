package card

import "fmt"

// Constantes para representar o resultado da comparação de cartas.
const (
	CardAWins = 1
	CardBWins = -1
	Tie       = 0
)

// RoundResult carrega o desfecho de uma comparação: quem venceu e os
// valores brutos dos dois lados, para que o cliente possa exibir o reveal.
type RoundResult struct {
	Winner int // CardAWins, CardBWins ou Tie
	ValueA int
	ValueB int
}

// Resolve executa a comparação entre duas cartas sobre um único atributo.
// É uma função pura: sem estado de sessão, sem aleatoriedade, sem efeitos.
// A regra é maior-que estrito; valores iguais empatam e nenhum lado pontua.
func Resolve(cardA, cardB *Card, attr Attribute) (RoundResult, error) {
	valueA, ok := cardA.Value(attr)
	if !ok {
		return RoundResult{}, fmt.Errorf("unknown comparison attribute: %q", attr)
	}
	valueB, _ := cardB.Value(attr)

	result := RoundResult{ValueA: valueA, ValueB: valueB}

	switch {
	case valueA > valueB:
		result.Winner = CardAWins
	case valueB > valueA:
		result.Winner = CardBWins
	default:
		result.Winner = Tie
	}

	return result, nil
}
