package network

import "encoding/json"

// Message é o envelope padrão para toda a comunicação.
// Um tipo para roteamento e um payload mantido em JSON bruto, decodificado
// só por quem conhece o comando.
type Message struct {
	Type    string          `json:"type"`    // Ex: "SUBMIT_CARD", "ROUND_REVEALED"
	Payload json.RawMessage `json:"payload"` // Dados específicos do tipo.
}

// NewMessage monta um envelope serializando o payload dado.
// Payloads deste pacote são sempre structs nossas; um erro de marshal aqui
// é um bug de programação, então ele vira um envelope de tipo "ERROR".
func NewMessage(msgType string, payload any) Message {
	if payload == nil {
		return Message{Type: msgType}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{Type: "ERROR", Payload: json.RawMessage(`{"error":"internal encoding failure"}`)}
	}
	return Message{Type: msgType, Payload: data}
}
