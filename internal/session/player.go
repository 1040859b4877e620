package session

import (
	"github.com/google/uuid"

	"cardclash/internal/network"
)

// Constantes de estado da sessão, para evitar erros de digitação.
const (
	stateLobby    = "lobby"     // conectado, fora de qualquer batalha
	stateInBattle = "in-battle" // criador ou joiner de uma batalha viva
)

// PlayerSession representa um participante único conectado ao servidor.
// O ID é a identidade que o coordenador conhece; um REATTACH pode adotar
// um ID antigo para retomar uma batalha após queda de conexão.
type PlayerSession struct {
	Client *network.Client

	ID         string
	State      string
	BattleCode string // vazio fora de batalha
}

// NewPlayerSession cria a sessão com uma identidade nova.
func NewPlayerSession(client *network.Client) *PlayerSession {
	return &PlayerSession{
		Client: client,
		ID:     uuid.NewString(),
		State:  stateLobby,
	}
}

// TrySend empurra uma mensagem sem bloquear, satisfazendo
// message.MessageSender. false com o buffer do cliente cheio.
func (s *PlayerSession) TrySend(msg network.Message) bool {
	return s.Client.TrySend(msg)
}
