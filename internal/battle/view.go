package battle

import (
	"cardclash/internal/game/card"
)

// CardView é a projeção de uma carta da própria mão do participante.
type CardView struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Rarity     card.Rarity `json:"rarity"`
	Power      int         `json:"power"`
	Resilience int         `json:"resilience"`
	Vitality   int         `json:"vitality"`
}

// View é a projeção de leitura de uma batalha, recortada para um único
// participante: a própria mão completa, do oponente apenas a contagem,
// e nunca a submissão ainda não revelada do outro lado.
type View struct {
	BattleCode        string         `json:"battleCode"`
	Status            Status         `json:"status"`
	RoundIndex        int            `json:"roundIndex"`
	Attribute         card.Attribute `json:"attribute,omitempty"`
	Stake             int64          `json:"stake"`
	You               string         `json:"you"`
	Opponent          string         `json:"opponent,omitempty"`
	YourHand          []CardView     `json:"yourHand,omitempty"`
	OpponentHandCount int            `json:"opponentHandCount"`
	YouSubmitted      bool           `json:"youSubmitted"`
	OpponentSubmitted bool           `json:"opponentSubmitted"`
	Scores            map[string]int `json:"scores"`
	LastRound         *RoundOutcome  `json:"lastRound,omitempty"`
}

// View monta a projeção para o participante dado.
func (s *Session) View(participantID string) (View, error) {
	if !s.IsParticipant(participantID) {
		return View{}, ErrNotParticipant
	}

	opponent := s.Opponent(participantID)

	v := View{
		BattleCode: s.code,
		Status:     s.status,
		RoundIndex: s.roundIndex,
		Attribute:  s.attribute,
		Stake:      s.stake,
		You:        participantID,
		Opponent:   opponent,
		Scores:     s.Scores(),
	}

	if hand := s.hands[participantID]; hand != nil {
		for _, c := range hand.Cards() {
			v.YourHand = append(v.YourHand, CardView{
				ID:         c.ID(),
				Name:       c.Name(),
				Rarity:     c.Rarity(),
				Power:      c.Power(),
				Resilience: c.Resilience(),
				Vitality:   c.Vitality(),
			})
		}
	}
	if opponent != "" {
		if hand := s.hands[opponent]; hand != nil {
			v.OpponentHandCount = hand.Size()
		}
		_, v.OpponentSubmitted = s.submissions[opponent]
	}
	_, v.YouSubmitted = s.submissions[participantID]

	// O resultado da última rodada já é público: o reveal aconteceu.
	if s.status == StatusRoundResolved || s.status == StatusFinished {
		v.LastRound = s.lastRound
	}

	return v, nil
}
