package battle

import "errors"

// Erros de domínio retornados pelas operações voltadas ao participante.
// A camada de sessão os entrega ao cliente como estão — nenhuma rejeição
// é engolida silenciosamente.
var (
	ErrBattleNotFound = errors.New("battle not found")
	ErrBattleFull     = errors.New("battle already has two participants")
	ErrAlreadyStarted = errors.New("battle already started")
	ErrNotYourTurn    = errors.New("you already have a pending submission for this round")
	ErrUnknownCard    = errors.New("card is not in your hand")
	ErrStakeMismatch  = errors.New("stake does not match the battle stake")
	ErrNotParticipant = errors.New("you are not a participant of this battle")
	ErrNotCancellable = errors.New("only a waiting battle can be cancelled by its creator")
	ErrRoundNotOpen   = errors.New("the battle is not accepting submissions right now")
)
