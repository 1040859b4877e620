package session

import (
	"context"
	"encoding/json"
	"errors"

	"cardclash/internal/battle"
	"cardclash/internal/session/message"
)

// ============================================================================
// DTOs dos comandos de lobby
// ============================================================================

type createBattlePayload struct {
	Stake int64 `json:"stake"`
}

type joinBattlePayload struct {
	BattleCode string `json:"battleCode"`
	Stake      int64  `json:"stake"`
}

type reattachPayload struct {
	BattleCode    string `json:"battleCode"`
	ParticipantID string `json:"participantId"`
}

// ============================================================================
// Roteador de lobby
// ============================================================================

func (h *GameHandler) registerLobbyHandlers() {
	h.lobbyRouter["CREATE_BATTLE"] = handleCreateBattle
	h.lobbyRouter["JOIN_BATTLE"] = handleJoinBattle
	h.lobbyRouter["REATTACH"] = handleReattach
}

// handleCreateBattle aloca uma batalha em waiting e devolve o código ao
// criador para ele compartilhar com o oponente.
func handleCreateBattle(h *GameHandler, s *PlayerSession, payload json.RawMessage) {
	var req createBattlePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		message.SendError(s, "invalid payload for CREATE_BATTLE")
		return
	}
	if req.Stake < 0 {
		message.SendError(s, "stake cannot be negative")
		return
	}

	code, err := h.coordinator.CreateBattle(s.ID, req.Stake)
	if err != nil {
		message.SendError(s, "failed to create battle: %v", err)
		return
	}

	s.State = stateInBattle
	s.BattleCode = code

	message.SendSuccess(s, s.State, "Battle created. Share the code with your opponent.", map[string]any{
		"battleCode": code,
		"stake":      req.Stake,
	})
}

// handleJoinBattle entra em uma batalha existente. O stake precisa bater
// com o do criador; a distribuição das mãos acontece aqui dentro do
// coordenador, e uma queda do catálogo devolve a batalha intacta a waiting.
func handleJoinBattle(h *GameHandler, s *PlayerSession, payload json.RawMessage) {
	var req joinBattlePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		message.SendError(s, "invalid payload for JOIN_BATTLE")
		return
	}

	err := h.coordinator.JoinBattle(context.Background(), req.BattleCode, s.ID, req.Stake)
	if err != nil {
		if errors.Is(err, battle.ErrCatalogUnavailable) {
			message.SendError(s, "the card catalog is unavailable, try again shortly")
			return
		}
		message.SendError(s, "failed to join battle: %v", err)
		return
	}

	s.State = stateInBattle
	s.BattleCode = battle.NormalizeCode(req.BattleCode)

	message.SendSuccess(s, s.State, "Joined. Hands are dealt — good luck!", map[string]string{
		"battleCode": s.BattleCode,
	})
}

// handleReattach retoma uma batalha após queda de conexão, adotando a
// identidade antiga. Desarma o timer de forfeit se chegou a tempo.
func handleReattach(h *GameHandler, s *PlayerSession, payload json.RawMessage) {
	var req reattachPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.ParticipantID == "" {
		message.SendError(s, "invalid payload for REATTACH")
		return
	}

	if err := h.adoptIdentity(s, req.ParticipantID); err != nil {
		message.SendError(s, "cannot reattach: %v", err)
		return
	}

	view, err := h.coordinator.HandleReattach(req.BattleCode, s.ID)
	if err != nil {
		message.SendError(s, "cannot reattach: %v", err)
		return
	}

	s.State = stateInBattle
	s.BattleCode = view.BattleCode

	message.SendSuccess(s, s.State, "Reattached to battle.", view)
}
