package session

import (
	"encoding/json"

	"cardclash/internal/battle"
	"cardclash/internal/session/message"
)

// ============================================================================
// DTOs dos comandos de batalha
// ============================================================================

type submitCardPayload struct {
	CardID int `json:"cardId"`
}

// ============================================================================
// Roteador de batalha
// ============================================================================

func (h *GameHandler) registerBattleHandlers() {
	h.battleRouter["SUBMIT_CARD"] = handleSubmitCard
	h.battleRouter["BATTLE_VIEW"] = handleBattleView
	h.battleRouter["CANCEL_BATTLE"] = handleCancelBattle
	h.battleRouter["LEAVE_BATTLE"] = handleLeaveBattle
}

// handleSubmitCard envia a escolha da rodada. A carta fica retida no
// servidor; o oponente só a vê no reveal conjunto.
func handleSubmitCard(h *GameHandler, s *PlayerSession, payload json.RawMessage) {
	var req submitCardPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		message.SendError(s, "invalid payload for SUBMIT_CARD")
		return
	}

	if err := h.coordinator.SubmitSelection(s.BattleCode, s.ID, req.CardID); err != nil {
		message.SendError(s, "submission rejected: %v", err)
		return
	}
	// Sem resposta de sucesso própria: a confirmação chega como
	// BATTLE_UPDATE ou ROUND_REVEALED emitido pelo coordenador.
}

// handleBattleView devolve a projeção recortada para este participante.
func handleBattleView(h *GameHandler, s *PlayerSession, _ json.RawMessage) {
	view, err := h.coordinator.GetBattleView(s.BattleCode, s.ID)
	if err != nil {
		message.SendError(s, "failed to fetch battle view: %v", err)
		return
	}
	message.SendSuccess(s, s.State, "Current battle view.", view)
}

// handleCancelBattle desfaz uma batalha que ainda espera por oponente.
func handleCancelBattle(h *GameHandler, s *PlayerSession, _ json.RawMessage) {
	if err := h.coordinator.CancelBattle(s.BattleCode, s.ID); err != nil {
		message.SendError(s, "cancel rejected: %v", err)
		return
	}

	s.State = stateLobby
	s.BattleCode = ""
	message.SendSuccess(s, s.State, "Battle cancelled, stake refunded.", nil)
}

// handleLeaveBattle volta ao lobby depois que a batalha terminou. Sair de
// uma batalha viva não existe: é desconexão, e desconexão tem forfeit.
func handleLeaveBattle(h *GameHandler, s *PlayerSession, _ json.RawMessage) {
	view, err := h.coordinator.GetBattleView(s.BattleCode, s.ID)
	if err == nil &&
		view.Status != battle.StatusFinished && view.Status != battle.StatusCancelled {
		message.SendError(s, "the battle is still in progress")
		return
	}

	s.State = stateLobby
	s.BattleCode = ""
	message.SendSuccess(s, s.State, "Back to the lobby.", nil)
}
