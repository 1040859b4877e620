package session

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"cardclash/internal/battle"
	"cardclash/internal/network"
	"cardclash/internal/session/message"
)

// CommandHandlerFunc define a assinatura de todos os handlers de comando:
// o contexto da sessão mais o payload bruto da mensagem.
type CommandHandlerFunc func(h *GameHandler, session *PlayerSession, payload json.RawMessage)

// GameHandler implementa network.EventHandler: traduz mensagens de clientes
// em operações do coordenador e eventos do coordenador em mensagens de
// clientes. Dois roteadores, um para cada estado do participante.
type GameHandler struct {
	coordinator *battle.Coordinator

	// sessions é tocado só pela goroutine do Hub.
	sessions map[*network.Client]*PlayerSession

	// participants é lido pelas goroutines de timer do coordenador via
	// Notify, por isso o lock — diferente do resto do estado daqui.
	mu           sync.RWMutex
	participants map[string]*PlayerSession

	lobbyRouter  map[string]CommandHandlerFunc
	battleRouter map[string]CommandHandlerFunc
}

// NewGameHandler monta o handler e registra os roteadores. O coordenador
// é ligado depois via BindCoordinator, porque ele próprio precisa deste
// handler como Notifier na construção.
func NewGameHandler() *GameHandler {
	h := &GameHandler{
		sessions:     make(map[*network.Client]*PlayerSession),
		participants: make(map[string]*PlayerSession),
		lobbyRouter:  make(map[string]CommandHandlerFunc),
		battleRouter: make(map[string]CommandHandlerFunc),
	}
	h.registerLobbyHandlers()
	h.registerBattleHandlers()
	return h
}

// BindCoordinator injeta o coordenador. Deve acontecer antes de Listen.
func (h *GameHandler) BindCoordinator(c *battle.Coordinator) {
	h.coordinator = c
}

// --- Implementação da interface network.EventHandler ---

// OnConnect é chamado pela goroutine do Hub. É seguro modificar o estado aqui.
func (h *GameHandler) OnConnect(c *network.Client) {
	s := NewPlayerSession(c)
	h.sessions[c] = s

	h.mu.Lock()
	h.participants[s.ID] = s
	h.mu.Unlock()

	log.Printf("[Session] Participant %s connected from %s. Total sessions: %d",
		s.ID, c.Conn().RemoteAddr(), len(h.sessions))

	message.SendSuccess(s, s.State, "Connected. Welcome to the arena!", map[string]string{
		"participantId": s.ID,
	})
}

func (h *GameHandler) OnDisconnect(c *network.Client) {
	s, ok := h.sessions[c]
	if !ok {
		return
	}

	// Queda no meio de uma batalha arma o timer de forfeit no coordenador;
	// a identidade continua válida para um REATTACH dentro do prazo.
	if s.State == stateInBattle && s.BattleCode != "" {
		h.coordinator.HandleDisconnect(s.BattleCode, s.ID)
	}

	h.mu.Lock()
	if h.participants[s.ID] == s {
		delete(h.participants, s.ID)
	}
	h.mu.Unlock()

	delete(h.sessions, c)
	log.Printf("[Session] Participant %s disconnected. Total sessions: %d", s.ID, len(h.sessions))
}

// OnMessage é um despachante: escolhe o roteador pelo estado e delega.
func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) {
	s, ok := h.sessions[c]
	if !ok {
		return // mensagem de cliente sem sessão
	}

	var router map[string]CommandHandlerFunc
	switch s.State {
	case stateLobby:
		router = h.lobbyRouter
	case stateInBattle:
		router = h.battleRouter
	default:
		message.SendError(s, "invalid session state: %s", s.State)
		return
	}

	handler, found := router[msg.Type]
	if !found {
		message.SendError(s, "unknown or invalid command for current state: %s", msg.Type)
		return
	}

	handler(h, s, msg.Payload)
}

// --- Implementação de battle.Notifier ---

// Notify entrega um evento do coordenador ao participante, se conectado.
// Fire-and-forget: desconectado ou com buffer cheio, o evento é descartado
// e o cliente se ressincroniza pela view no reattach.
func (h *GameHandler) Notify(participantID string, ev battle.Event) {
	h.mu.RLock()
	s, ok := h.participants[participantID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if !s.Client.TrySend(message.CreateEventMessage(ev)) {
		log.Printf("[Session] WARN: dropped %s event for slow participant %s (battle %s).",
			ev.Kind, participantID, ev.BattleCode)
	}
}

// adoptIdentity troca a identidade da sessão (REATTACH). Retorna erro se
// o ID alvo já está em uso por uma conexão viva.
func (h *GameHandler) adoptIdentity(s *PlayerSession, newID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if other, inUse := h.participants[newID]; inUse && other != s {
		return fmt.Errorf("participant %s is already connected", newID)
	}
	delete(h.participants, s.ID)
	s.ID = newID
	h.participants[newID] = s
	return nil
}
