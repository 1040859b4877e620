package battle

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"cardclash/internal/game/card"
	"cardclash/internal/game/deck"
)

// syntheticCatalog responde qualquer ID com uma carta determinística.
type syntheticCatalog struct{}

func (syntheticCatalog) Lookup(ctx context.Context, id int) (*card.Card, error) {
	static, err := card.NewStaticCatalog([]card.CatalogEntry{{
		ID:         id,
		Name:       fmt.Sprintf("species-%d", id),
		Power:      id % 100,
		Resilience: (id * 3) % 100,
		Vitality:   (id * 7) % 100,
	}})
	if err != nil {
		return nil, err
	}
	return static.Lookup(ctx, id)
}

func dealHands(t *testing.T, seed uint64) (*deck.Hand, *deck.Hand) {
	t.Helper()
	gen := deck.NewGenerator(syntheticCatalog{}, seed)
	a, b, err := gen.DealBattle(context.Background())
	require.NoError(t, err)
	return a, b
}

// activeSession monta uma batalha já em active com os dois participantes.
func activeSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession("TESTCODE00", "alice", 100, 1)
	a, b := dealHands(t, 1)
	require.NoError(t, s.Activate("bob", 100, a, b))
	return s
}

// playRound submete as cartas mais à frente das duas mãos e resolve.
func playRound(t *testing.T, s *Session) *RoundOutcome {
	t.Helper()
	both, err := s.SubmitCard("alice", s.Hand("alice").Cards()[0].ID())
	require.NoError(t, err)
	require.False(t, both)

	both, err = s.SubmitCard("bob", s.Hand("bob").Cards()[0].ID())
	require.NoError(t, err)
	require.True(t, both)

	outcome, err := s.ResolveRound()
	require.NoError(t, err)
	return outcome
}

func TestSession_JoinGuards(t *testing.T) {
	s := NewSession("TESTCODE00", "alice", 100, 1)

	require.ErrorIs(t, s.CheckJoin("bob", 50), ErrStakeMismatch)
	require.ErrorIs(t, s.CheckJoin("alice", 100), ErrNotParticipant)

	a, b := dealHands(t, 1)
	require.NoError(t, s.Activate("bob", 100, a, b))
	require.Equal(t, StatusActive, s.Status())
	require.True(t, card.ValidAttribute(s.Attribute()))

	// Terceiro participante: a batalha está cheia.
	require.ErrorIs(t, s.CheckJoin("carol", 100), ErrBattleFull)
}

func TestSession_SubmitGuards(t *testing.T) {
	s := activeSession(t)

	// Carta que não está na mão.
	_, err := s.SubmitCard("alice", 99999)
	require.ErrorIs(t, err, ErrUnknownCard)

	// Não participante.
	_, err = s.SubmitCard("carol", s.Hand("alice").Cards()[0].ID())
	require.ErrorIs(t, err, ErrNotParticipant)

	// Submissão dupla na mesma rodada.
	first := s.Hand("alice").Cards()[0].ID()
	second := s.Hand("alice").Cards()[1].ID()
	_, err = s.SubmitCard("alice", first)
	require.NoError(t, err)
	_, err = s.SubmitCard("alice", second)
	require.ErrorIs(t, err, ErrNotYourTurn)
}

func TestSession_SubmittedCardLeavesHand(t *testing.T) {
	s := activeSession(t)

	cardID := s.Hand("alice").Cards()[0].ID()
	_, err := s.SubmitCard("alice", cardID)
	require.NoError(t, err)

	require.False(t, s.Hand("alice").Contains(cardID))
	require.Equal(t, deck.HandSize-1, s.Hand("alice").Size())

	// A mesma carta não pode ser submetida de novo em rodada nenhuma.
	_, err = s.SubmitCard("bob", s.Hand("bob").Cards()[0].ID())
	require.NoError(t, err)
	_, err = s.ResolveRound()
	require.NoError(t, err)
	_, err = s.AdvanceRound()
	require.NoError(t, err)

	_, err = s.SubmitCard("alice", cardID)
	require.ErrorIs(t, err, ErrUnknownCard)
}

func TestSession_RoundResolution(t *testing.T) {
	s := activeSession(t)
	outcome := playRound(t, s)

	require.Equal(t, 0, outcome.RoundIndex)
	require.Equal(t, s.Attribute(), outcome.Attribute)
	require.Len(t, outcome.Cards, 2)
	require.Equal(t, StatusRoundResolved, s.Status())

	// Placar consistente com o vencedor declarado.
	aliceValue := outcome.Cards["alice"].Value
	bobValue := outcome.Cards["bob"].Value
	switch {
	case aliceValue > bobValue:
		require.Equal(t, "alice", outcome.Winner)
		require.Equal(t, 1, outcome.Scores["alice"])
		require.Equal(t, 0, outcome.Scores["bob"])
	case bobValue > aliceValue:
		require.Equal(t, "bob", outcome.Winner)
		require.Equal(t, 1, outcome.Scores["bob"])
		require.Equal(t, 0, outcome.Scores["alice"])
	default:
		require.Empty(t, outcome.Winner)
		require.Equal(t, 0, outcome.Scores["alice"])
		require.Equal(t, 0, outcome.Scores["bob"])
	}
}

func TestSession_AdvanceRoundIncrementsByOne(t *testing.T) {
	s := activeSession(t)

	playRound(t, s)
	finished, err := s.AdvanceRound()
	require.NoError(t, err)
	require.False(t, finished)
	require.Equal(t, 1, s.RoundIndex())
	require.Equal(t, StatusActive, s.Status())

	// Avançar de novo sem resolver é inválido.
	_, err = s.AdvanceRound()
	require.Error(t, err)
}

func TestSession_FullBattleToFinished(t *testing.T) {
	s := activeSession(t)

	for round := 0; round < deck.HandSize; round++ {
		require.Equal(t, round, s.RoundIndex())
		playRound(t, s)
		finished, err := s.AdvanceRound()
		require.NoError(t, err)
		require.Equal(t, round == deck.HandSize-1, finished)
	}

	require.Equal(t, StatusFinished, s.Status())
	require.Equal(t, deck.HandSize, s.RoundIndex())
	require.Equal(t, 0, s.Hand("alice").Size())
	require.Equal(t, 0, s.Hand("bob").Size())

	winner, tie, err := s.Outcome()
	require.NoError(t, err)
	scores := s.Scores()
	if tie {
		require.Equal(t, scores["alice"], scores["bob"])
		require.Empty(t, winner)
	} else {
		require.NotEmpty(t, winner)
		require.Greater(t, scores[winner], scores[s.Opponent(winner)])
	}

	// Depois do fim, nada se move.
	_, err = s.SubmitCard("alice", 1)
	require.ErrorIs(t, err, ErrRoundNotOpen)
}

func TestSession_ForfeitAwardsRemainingRounds(t *testing.T) {
	s := activeSession(t)

	// Três rodadas jogadas, depois bob some.
	for i := 0; i < 3; i++ {
		playRound(t, s)
		_, err := s.AdvanceRound()
		require.NoError(t, err)
	}
	aliceBefore := s.Scores()["alice"]

	outcome, err := s.Forfeit("alice")
	require.NoError(t, err)
	require.True(t, outcome.Forfeited)
	require.Equal(t, "alice", outcome.Winner)
	require.Equal(t, StatusFinished, s.Status())

	// As sete rodadas não jogadas vão todas para alice.
	require.Equal(t, aliceBefore+(deck.HandSize-3), s.Scores()["alice"])

	winner, tie, err := s.Outcome()
	require.NoError(t, err)
	require.False(t, tie)
	require.Equal(t, "alice", winner)
}

func TestSession_ForfeitDuringResolvedRound(t *testing.T) {
	s := activeSession(t)

	// Rodada 0 resolvida mas ainda não avançada: ela já pontuou, então
	// só as nove seguintes são concedidas.
	playRound(t, s)
	bobBefore := s.Scores()["bob"]

	_, err := s.Forfeit("bob")
	require.NoError(t, err)
	require.Equal(t, bobBefore+(deck.HandSize-1), s.Scores()["bob"])
}

func TestSession_CancelOnlyWhileWaiting(t *testing.T) {
	s := NewSession("TESTCODE00", "alice", 100, 1)

	require.ErrorIs(t, s.Cancel("bob"), ErrNotParticipant)
	require.NoError(t, s.Cancel("alice"))
	require.Equal(t, StatusCancelled, s.Status())

	active := activeSession(t)
	require.ErrorIs(t, active.Cancel("alice"), ErrNotCancellable)
}

func TestSession_ViewRedaction(t *testing.T) {
	s := activeSession(t)

	// Alice submete; bob não pode ver qual carta, só que houve submissão.
	_, err := s.SubmitCard("alice", s.Hand("alice").Cards()[0].ID())
	require.NoError(t, err)

	bobView, err := s.View("bob")
	require.NoError(t, err)
	require.True(t, bobView.OpponentSubmitted)
	require.False(t, bobView.YouSubmitted)
	require.Nil(t, bobView.LastRound, "no reveal before both cards are in")
	require.Len(t, bobView.YourHand, deck.HandSize)
	require.Equal(t, deck.HandSize-1, bobView.OpponentHandCount)

	aliceView, err := s.View("alice")
	require.NoError(t, err)
	require.True(t, aliceView.YouSubmitted)
	require.False(t, aliceView.OpponentSubmitted)

	// Depois do reveal o resultado é público para os dois.
	_, err = s.SubmitCard("bob", s.Hand("bob").Cards()[0].ID())
	require.NoError(t, err)
	_, err = s.ResolveRound()
	require.NoError(t, err)

	bobView, err = s.View("bob")
	require.NoError(t, err)
	require.NotNil(t, bobView.LastRound)
	require.Len(t, bobView.LastRound.Cards, 2)

	_, err = s.View("carol")
	require.ErrorIs(t, err, ErrNotParticipant)
}
