package battle

// EventKind nomeia os eventos que saem do coordenador para os clientes.
type EventKind string

const (
	EventBattleUpdate    EventKind = "BATTLE_UPDATE"
	EventHandDealt       EventKind = "HAND_DEALT"
	EventRoundRevealed   EventKind = "ROUND_REVEALED"
	EventBattleFinished  EventKind = "BATTLE_FINISHED"
	EventBattleCancelled EventKind = "BATTLE_CANCELLED"
)

// Event é uma notificação para exatamente um participante. A entrega é
// at-least-once: a tripla (BattleCode, RoundIndex, Kind) permite ao
// consumidor descartar duplicatas sem aplicar o placar duas vezes.
type Event struct {
	BattleCode string    `json:"battleCode"`
	RoundIndex int       `json:"roundIndex"`
	Kind       EventKind `json:"eventKind"`
	Payload    any       `json:"payload,omitempty"`
}

// Notifier entrega eventos aos participantes conectados. Para o
// coordenador a entrega é fire-and-forget: um participante desconectado
// simplesmente perde o evento e se ressincroniza via view no reattach.
type Notifier interface {
	Notify(participantID string, ev Event)
}

// FinishedPayload acompanha EventBattleFinished.
type FinishedPayload struct {
	Winner string         `json:"winner,omitempty"` // vazio em empate
	Tie    bool           `json:"tie"`
	Scores map[string]int `json:"scores"`
}

// CancelledPayload acompanha EventBattleCancelled e carrega o stake a
// devolver ao criador.
type CancelledPayload struct {
	RefundTo string `json:"refundTo"`
	Stake    int64  `json:"stake"`
}

// SettlementRequest é o evento final assinado para o sistema externo de
// pagamento. Emitido no máximo uma vez por batalha; o coordenador, não o
// sistema de pagamento, é responsável pela deduplicação.
type SettlementRequest struct {
	BattleCode          string `json:"battleCode"`
	Outcome             string `json:"outcome"` // ID do vencedor ou "tie"
	StakePerParticipant int64  `json:"stakePerParticipant"`
}

// Settler é o colaborador de pagamento. A chamada é soft: falha é logada
// e re-tentada pelo publicador, nunca bloqueia o andamento do jogo.
type Settler interface {
	RequestSettlement(req SettlementRequest) error
}

// Archiver persiste batalhas encerradas antes de serem descartadas da
// memória. Implementação opcional; nil desliga o arquivamento.
type Archiver interface {
	SaveResult(rec ArchiveRecord) error
}

// ArchiveRecord é a fotografia final de uma batalha.
type ArchiveRecord struct {
	BattleCode string
	Creator    string
	Joiner     string
	Stake      int64
	Winner     string // vazio em empate
	Scores     map[string]int
	Forfeited  bool
}
