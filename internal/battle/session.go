package battle

import (
	"fmt"
	"math/rand/v2"
	"time"

	"cardclash/internal/game/card"
	"cardclash/internal/game/deck"
)

// Status é o estado do ciclo de vida de uma batalha.
type Status string

const (
	StatusWaiting       Status = "waiting"        // só o criador, aguardando joiner
	StatusActive        Status = "active"         // mãos distribuídas, rodada aberta
	StatusRoundPending  Status = "round_pending"  // uma submissão recebida, aguardando a segunda
	StatusRoundResolved Status = "round_resolved" // resultado calculado, janela de exibição
	StatusFinished      Status = "finished"
	StatusCancelled     Status = "cancelled"
)

// Submission é efêmera: existe entre "participante escolheu" e "rodada
// resolvida", e é apagada na resolução. Nunca é ecoada ao oponente antes
// do reveal conjunto.
type Submission struct {
	Card        *card.Card
	SubmittedAt time.Time
}

// RevealedCard é a projeção de uma submissão depois do reveal atômico.
type RevealedCard struct {
	CardID int    `json:"cardId"`
	Name   string `json:"name"`
	Value  int    `json:"value"`
}

// RoundOutcome é o resultado de uma rodada já resolvida.
type RoundOutcome struct {
	RoundIndex int                     `json:"roundIndex"`
	Attribute  card.Attribute          `json:"attribute"`
	Winner     string                  `json:"winner"` // ID do participante, vazio em empate
	Cards      map[string]RevealedCard `json:"cards"`  // por participante, ambos revelados juntos
	Scores     map[string]int          `json:"scores"` // placar acumulado após a rodada
	Forfeited  bool                    `json:"forfeited,omitempty"`
}

// Session é a máquina de estados de uma batalha. Ela não conhece rede,
// relógio de dwell nem catálogo: só transições e seus guardas. Quem
// serializa o acesso (um lock lógico por batalha) é o Coordinator.
type Session struct {
	code    string
	creator string
	joiner  string
	stake   int64

	status      Status
	roundIndex  int
	attribute   card.Attribute
	hands       map[string]*deck.Hand
	submissions map[string]*Submission
	scores      map[string]int
	lastRound   *RoundOutcome

	rng       *rand.Rand
	createdAt time.Time
}

// NewSession cria uma batalha em waiting. Nenhuma mão é distribuída aqui:
// isso só acontece no join, para não gastar catálogo com batalhas que
// ninguém entra.
func NewSession(code, creatorID string, stake int64, seed uint64) *Session {
	return &Session{
		code:        code,
		creator:     creatorID,
		stake:       stake,
		status:      StatusWaiting,
		hands:       make(map[string]*deck.Hand, 2),
		submissions: make(map[string]*Submission, 2),
		scores:      map[string]int{creatorID: 0},
		rng:         rand.New(rand.NewPCG(seed, 0)),
		createdAt:   time.Now(),
	}
}

func (s *Session) Code() string              { return s.code }
func (s *Session) Creator() string           { return s.creator }
func (s *Session) Joiner() string            { return s.joiner }
func (s *Session) Stake() int64              { return s.stake }
func (s *Session) Status() Status            { return s.status }
func (s *Session) RoundIndex() int           { return s.roundIndex }
func (s *Session) Attribute() card.Attribute { return s.attribute }
func (s *Session) LastRound() *RoundOutcome  { return s.lastRound }

// Scores retorna uma cópia do placar acumulado.
func (s *Session) Scores() map[string]int {
	out := make(map[string]int, len(s.scores))
	for id, v := range s.scores {
		out[id] = v
	}
	return out
}

// IsParticipant diz se o ID pertence à batalha.
func (s *Session) IsParticipant(id string) bool {
	return id == s.creator || (s.joiner != "" && id == s.joiner)
}

// Opponent retorna o outro participante, ou vazio se ainda não há joiner.
func (s *Session) Opponent(id string) string {
	switch id {
	case s.creator:
		return s.joiner
	case s.joiner:
		return s.creator
	}
	return ""
}

// Hand retorna a mão canônica de um participante. Só o Coordinator deve
// tocar nela; as views dos clientes recebem cópias.
func (s *Session) Hand(id string) *deck.Hand {
	return s.hands[id]
}

// CheckJoin valida um join sem efetivá-lo. Usado antes de gastar chamadas
// de catálogo: se o join seria rejeitado, nenhuma mão é distribuída.
func (s *Session) CheckJoin(joinerID string, stake int64) error {
	if s.status != StatusWaiting {
		if s.joiner != "" {
			return ErrBattleFull
		}
		return ErrAlreadyStarted
	}
	if joinerID == s.creator {
		return fmt.Errorf("%w: creator cannot join their own battle", ErrNotParticipant)
	}
	if stake != s.stake {
		return ErrStakeMismatch
	}
	return nil
}

// Activate efetiva o join: registra o joiner, entrega as duas mãos e abre
// a rodada 0 com um atributo sorteado. Invariante: exatamente 0 ou 2
// participantes fora de waiting — nunca 1.
func (s *Session) Activate(joinerID string, stake int64, creatorHand, joinerHand *deck.Hand) error {
	if err := s.CheckJoin(joinerID, stake); err != nil {
		return err
	}

	s.joiner = joinerID
	s.scores[joinerID] = 0
	s.hands[s.creator] = creatorHand
	s.hands[joinerID] = joinerHand
	s.attribute = card.RandomAttribute(s.rng)
	s.status = StatusActive
	return nil
}

// SubmitCard registra a escolha de um participante para a rodada atual.
// A carta sai da mão imediatamente (jogada, nunca re-adicionada) mas fica
// oculta do oponente até o reveal. Retorna true quando ambas as submissões
// estão presentes e a rodada pode ser resolvida.
func (s *Session) SubmitCard(participantID string, cardID int) (bothIn bool, err error) {
	if s.status != StatusActive && s.status != StatusRoundPending {
		return false, ErrRoundNotOpen
	}
	if !s.IsParticipant(participantID) {
		return false, ErrNotParticipant
	}
	if _, pending := s.submissions[participantID]; pending {
		return false, ErrNotYourTurn
	}

	hand := s.hands[participantID]
	if hand == nil || !hand.Contains(cardID) {
		return false, ErrUnknownCard
	}

	played, err := hand.Play(cardID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnknownCard, err)
	}

	s.submissions[participantID] = &Submission{Card: played, SubmittedAt: time.Now()}
	s.status = StatusRoundPending
	return len(s.submissions) == 2, nil
}

// ResolveRound compara as duas submissões sobre o atributo da rodada,
// atualiza o placar (empate não pontua ninguém) e limpa as submissões.
// Este é o reveal: as duas cartas ficam visíveis ao mesmo tempo, nunca
// uma antes da outra.
func (s *Session) ResolveRound() (*RoundOutcome, error) {
	if s.status != StatusRoundPending {
		return nil, fmt.Errorf("cannot resolve round in status %s", s.status)
	}
	creatorSub := s.submissions[s.creator]
	joinerSub := s.submissions[s.joiner]
	if creatorSub == nil || joinerSub == nil {
		return nil, fmt.Errorf("cannot resolve round %d: missing submission", s.roundIndex)
	}

	result, err := card.Resolve(creatorSub.Card, joinerSub.Card, s.attribute)
	if err != nil {
		return nil, err
	}

	outcome := &RoundOutcome{
		RoundIndex: s.roundIndex,
		Attribute:  s.attribute,
		Cards: map[string]RevealedCard{
			s.creator: {CardID: creatorSub.Card.ID(), Name: creatorSub.Card.Name(), Value: result.ValueA},
			s.joiner:  {CardID: joinerSub.Card.ID(), Name: joinerSub.Card.Name(), Value: result.ValueB},
		},
	}

	switch result.Winner {
	case card.CardAWins:
		s.scores[s.creator]++
		outcome.Winner = s.creator
	case card.CardBWins:
		s.scores[s.joiner]++
		outcome.Winner = s.joiner
	}

	outcome.Scores = s.Scores()
	s.lastRound = outcome
	s.submissions = make(map[string]*Submission, 2)
	s.status = StatusRoundResolved
	return outcome, nil
}

// AdvanceRound fecha a janela de exibição: incrementa roundIndex em
// exatamente 1 e ou abre a próxima rodada (re-sorteando o atributo) ou
// encerra a batalha quando roundIndex alcança o tamanho da mão.
func (s *Session) AdvanceRound() (finished bool, err error) {
	if s.status != StatusRoundResolved {
		return false, fmt.Errorf("cannot advance round in status %s", s.status)
	}

	s.roundIndex++
	if s.roundIndex >= deck.HandSize {
		s.status = StatusFinished
		return true, nil
	}

	s.attribute = card.RandomAttribute(s.rng)
	s.status = StatusActive
	return false, nil
}

// Forfeit encerra a batalha a favor do participante conectado: todas as
// rodadas ainda não resolvidas são concedidas a ele. Disparado pelo
// Coordinator quando o timeout de desconexão expira.
func (s *Session) Forfeit(winnerID string) (*RoundOutcome, error) {
	if !s.IsParticipant(winnerID) {
		return nil, ErrNotParticipant
	}
	switch s.status {
	case StatusActive, StatusRoundPending, StatusRoundResolved:
	default:
		return nil, fmt.Errorf("cannot forfeit battle in status %s", s.status)
	}

	remaining := deck.HandSize - s.roundIndex
	if s.status == StatusRoundResolved {
		// A rodada atual já foi resolvida e pontuada; só as seguintes contam.
		remaining--
	}
	s.scores[winnerID] += remaining

	outcome := &RoundOutcome{
		RoundIndex: s.roundIndex,
		Attribute:  s.attribute,
		Winner:     winnerID,
		Cards:      map[string]RevealedCard{},
		Scores:     nil,
		Forfeited:  true,
	}

	s.roundIndex = deck.HandSize
	s.status = StatusFinished
	outcome.Scores = s.Scores()
	s.lastRound = outcome
	s.submissions = make(map[string]*Submission, 2)
	return outcome, nil
}

// Cancel desfaz uma batalha que ainda espera por um joiner. Único caminho
// de cancelamento válido; a devolução do stake vai no evento emitido.
func (s *Session) Cancel(byID string) error {
	if byID != s.creator {
		return ErrNotParticipant
	}
	if s.status != StatusWaiting {
		return ErrNotCancellable
	}
	s.status = StatusCancelled
	return nil
}

// Outcome calcula o desfecho final. Totais iguais são um empate explícito.
func (s *Session) Outcome() (winnerID string, tie bool, err error) {
	if s.status != StatusFinished {
		return "", false, fmt.Errorf("battle %s is not finished", s.code)
	}
	creatorScore := s.scores[s.creator]
	joinerScore := s.scores[s.joiner]
	switch {
	case creatorScore > joinerScore:
		return s.creator, false, nil
	case joinerScore > creatorScore:
		return s.joiner, false, nil
	default:
		return "", true, nil
	}
}
