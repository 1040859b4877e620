package message

import (
	"fmt"
	"log"

	"cardclash/internal/network"
)

// MessageSender é qualquer destino que aceita mensagens de saída sem
// bloquear. Permite testar os handlers sem uma conexão real.
//
// A entrega nunca pode segurar a goroutine do Hub: um cliente que parou
// de ler fica com o buffer cheio, e um envio bloqueante ali congelaria o
// servidor inteiro. Quem perde mensagens se ressincroniza via BATTLE_VIEW.
type MessageSender interface {
	TrySend(msg network.Message) bool
}

// SendError envia uma mensagem de erro formatada para o cliente.
func SendError(sender MessageSender, format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	if !sender.TrySend(CreateErrorResponse(text)) {
		log.Printf("[Session] WARN: dropped error response for slow client: %s", text)
	}
}

// SendSuccess envia uma mensagem de sucesso para o cliente.
func SendSuccess(sender MessageSender, state, msg string, data any) {
	if !sender.TrySend(CreateSuccessResponse(state, msg, data)) {
		log.Printf("[Session] WARN: dropped success response for slow client: %s", msg)
	}
}
