package message

// Mensagens no sentido servidor -> cliente.

import (
	"encoding/json"

	"cardclash/internal/battle"
	"cardclash/internal/network"
)

// SuccessPayload carrega o estado explícito da sessão junto da resposta,
// para o cliente saber qual conjunto de comandos vale agora.
type SuccessPayload struct {
	State   string `json:"state"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorPayload define a estrutura de uma resposta de erro. O texto é
// renderizável como está — nenhuma rejeição chega mastigada.
type ErrorPayload struct {
	Error string `json:"error"`
}

// CreateSuccessResponse monta a resposta de sucesso com o estado atual.
func CreateSuccessResponse(state, msg string, data any) network.Message {
	payload := SuccessPayload{
		State:   state,
		Message: msg,
		Data:    data,
	}
	payloadBytes, _ := json.Marshal(payload)
	return network.Message{
		Type:    "RESPONSE_SUCCESS",
		Payload: payloadBytes,
	}
}

// CreateErrorResponse monta a resposta de erro.
func CreateErrorResponse(errorMsg string) network.Message {
	payload := ErrorPayload{Error: errorMsg}
	payloadBytes, _ := json.Marshal(payload)
	return network.Message{
		Type:    "RESPONSE_ERROR",
		Payload: payloadBytes,
	}
}

// CreateEventMessage embrulha um evento do coordenador. O tipo da mensagem
// é o próprio eventKind; o payload leva a tripla de deduplicação completa.
func CreateEventMessage(ev battle.Event) network.Message {
	payloadBytes, _ := json.Marshal(ev)
	return network.Message{
		Type:    string(ev.Kind),
		Payload: payloadBytes,
	}
}
