package message

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cardclash/internal/battle"
	"cardclash/internal/network"
)

type fakeSender struct {
	out chan network.Message
}

func (f *fakeSender) TrySend(msg network.Message) bool {
	select {
	case f.out <- msg:
		return true
	default:
		return false
	}
}

func TestCreateSuccessResponse(t *testing.T) {
	msg := CreateSuccessResponse("lobby", "battle created", map[string]string{"battleCode": "ABC123XYZW"})
	require.Equal(t, "RESPONSE_SUCCESS", msg.Type)

	var payload SuccessPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	require.Equal(t, "lobby", payload.State)
	require.Equal(t, "battle created", payload.Message)
}

func TestCreateErrorResponse(t *testing.T) {
	msg := CreateErrorResponse("that battle is already full")
	require.Equal(t, "RESPONSE_ERROR", msg.Type)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	require.Equal(t, "that battle is already full", payload.Error)
}

func TestCreateEventMessage_CarriesDedupTriple(t *testing.T) {
	ev := battle.Event{
		BattleCode: "ABC123XYZW",
		RoundIndex: 3,
		Kind:       battle.EventRoundRevealed,
		Payload:    map[string]int{"x": 1},
	}

	msg := CreateEventMessage(ev)
	require.Equal(t, "ROUND_REVEALED", msg.Type)

	var decoded battle.Event
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	require.Equal(t, ev.BattleCode, decoded.BattleCode)
	require.Equal(t, ev.RoundIndex, decoded.RoundIndex)
	require.Equal(t, ev.Kind, decoded.Kind)
}

func TestSendHelpers(t *testing.T) {
	sender := &fakeSender{out: make(chan network.Message, 2)}

	SendSuccess(sender, "lobby", "ok", nil)
	SendError(sender, "bad card id %d", 42)

	msg := <-sender.out
	require.Equal(t, "RESPONSE_SUCCESS", msg.Type)

	msg = <-sender.out
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	require.Equal(t, "bad card id 42", payload.Error)
}

func TestSendHelpers_NeverBlockOnFullBuffer(t *testing.T) {
	// Buffer de um cliente que parou de ler: cheio e sem consumidor.
	// Os helpers precisam retornar mesmo assim — um envio bloqueante
	// aqui seguraria a goroutine do Hub para todas as batalhas.
	sender := &fakeSender{out: make(chan network.Message, 1)}
	require.True(t, sender.TrySend(network.NewMessage("FILLER", nil)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		SendSuccess(sender, "lobby", "ok", nil)
		SendError(sender, "rejected")
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("send helpers blocked on a full client buffer")
	}

	// Só a mensagem original ficou no buffer; as demais foram descartadas.
	require.Len(t, sender.out, 1)
	msg := <-sender.out
	require.Equal(t, "FILLER", msg.Type)
}
