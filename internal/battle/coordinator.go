package battle

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"cardclash/internal/game/card"
	"cardclash/internal/game/deck"
)

// Dealer distribui as duas mãos de uma batalha. *deck.Generator implementa.
type Dealer interface {
	DealBattle(ctx context.Context) (*deck.Hand, *deck.Hand, error)
}

// Config são os parâmetros de política do coordenador. São escolhas de
// política, não constantes de correção.
type Config struct {
	// DwellTime é quanto um resultado de rodada fica visível antes do
	// coordenador (nunca um participante) avançar para a próxima rodada.
	DwellTime time.Duration

	// ForfeitTimeout é quanto um participante desconectado tem para
	// voltar antes da batalha ser concedida ao oponente conectado.
	ForfeitTimeout time.Duration

	// Retention é quanto tempo batalhas encerradas ficam no registro
	// antes da limpeza periódica descartá-las.
	Retention time.Duration

	// WaitingExpiry é quanto uma batalha em waiting pode esperar por um
	// joiner. Expirada, ela é cancelada com devolução do stake — sem isso
	// batalhas que ninguém entra ficariam no registro para sempre.
	WaitingExpiry time.Duration
}

const (
	defaultDwellTime      = 4 * time.Second
	defaultForfeitTimeout = 45 * time.Second
	defaultRetention      = 5 * time.Minute
	defaultWaitingExpiry  = 15 * time.Minute
)

// entry embrulha uma sessão com o seu lock lógico e os timers que o
// coordenador mantém por batalha. O lock é segurado só pela duração de
// uma transição, nunca através de I/O de catálogo ou de pagamento.
type entry struct {
	mu      sync.Mutex
	session *Session

	joining bool // join em andamento: catálogo sendo consultado fora do lock
	settled bool // SettlementRequest já emitido (deduplicação)
	doneAt  time.Time

	dwellTimer    *time.Timer
	forfeitTimers map[string]*time.Timer
}

// Coordinator é o processo autoritativo: único escritor do estado canônico
// de todas as batalhas. Clientes são apenas projeções de leitura e
// remetentes de pedidos.
type Coordinator struct {
	mu      sync.RWMutex
	battles map[string]*entry

	dealer   Dealer
	notifier Notifier
	settler  Settler
	archiver Archiver
	cfg      Config

	quit chan struct{}
}

// NewCoordinator monta o coordenador. settler e archiver podem ser nil
// (emissão de settlement e arquivamento desligados, só log).
func NewCoordinator(dealer Dealer, notifier Notifier, settler Settler, archiver Archiver, cfg Config) *Coordinator {
	if cfg.DwellTime <= 0 {
		cfg.DwellTime = defaultDwellTime
	}
	if cfg.ForfeitTimeout <= 0 {
		cfg.ForfeitTimeout = defaultForfeitTimeout
	}
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}
	if cfg.WaitingExpiry <= 0 {
		cfg.WaitingExpiry = defaultWaitingExpiry
	}
	return &Coordinator{
		battles:  make(map[string]*entry),
		dealer:   dealer,
		notifier: notifier,
		settler:  settler,
		archiver: archiver,
		cfg:      cfg,
		quit:     make(chan struct{}),
	}
}

// Run mantém a limpeza periódica de batalhas encerradas. Bloqueante;
// rode em uma goroutine própria.
func (c *Coordinator) Run() {
	log.Println("[Coordinator] Started.")
	cleanupTicker := time.NewTicker(1 * time.Minute)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-cleanupTicker.C:
			c.cleanupDone()
		case <-c.quit:
			log.Println("[Coordinator] Stopped.")
			return
		}
	}
}

// Stop encerra a goroutine de Run.
func (c *Coordinator) Stop() {
	close(c.quit)
}

// ============================================================================
// Operações voltadas ao participante
// ============================================================================

// CreateBattle aloca uma nova batalha em waiting e devolve o código.
// Nenhuma mão é distribuída aqui — isso acontece no join.
func (c *Coordinator) CreateBattle(creatorID string, stake int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := GenerateCode()
	for _, exists := c.battles[code]; exists; _, exists = c.battles[code] {
		code = GenerateCode()
	}

	seed := uint64(time.Now().UnixNano())
	c.battles[code] = &entry{
		session:       NewSession(code, creatorID, stake, seed),
		forfeitTimers: make(map[string]*time.Timer),
	}

	log.Printf("[Coordinator] Battle %s created by %s (stake %d).", code, creatorID, stake)
	c.notifyView(c.battles[code].session, creatorID, EventBattleUpdate)
	return code, nil
}

// JoinBattle valida o join, distribui as duas mãos e ativa a batalha.
// As consultas ao catálogo acontecem com o lock da batalha liberado: uma
// queda do catálogo atrasa o join, nunca trava submissões de outras
// batalhas nem deixa esta meio-distribuída — em caso de falha ela continua
// em waiting, intacta.
func (c *Coordinator) JoinBattle(ctx context.Context, code, joinerID string, stake int64) error {
	e, err := c.lookup(code)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.joining {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	if err := e.session.CheckJoin(joinerID, stake); err != nil {
		e.mu.Unlock()
		return err
	}
	e.joining = true
	e.mu.Unlock()

	creatorHand, joinerHand, dealErr := c.dealer.DealBattle(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.joining = false

	if dealErr != nil {
		log.Printf("[Coordinator] Battle %s: dealing failed, returning to waiting: %v", code, dealErr)
		return dealErr
	}

	if err := e.session.Activate(joinerID, stake, creatorHand, joinerHand); err != nil {
		// Cancelada enquanto o catálogo respondia, por exemplo.
		return err
	}

	log.Printf("[Coordinator] Battle %s: %s joined, hands dealt, round 0 attribute %s.",
		code, joinerID, e.session.Attribute())

	c.notifyView(e.session, e.session.Creator(), EventHandDealt)
	c.notifyView(e.session, joinerID, EventHandDealt)
	return nil
}

// SubmitSelection registra a escolha de um participante. A submissão fica
// guardada somente no servidor: o oponente vê apenas que o outro já jogou,
// nunca qual carta, até o reveal atômico com as duas presentes.
func (c *Coordinator) SubmitSelection(code, participantID string, cardID int) error {
	e, err := c.lookup(code)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	bothIn, err := e.session.SubmitCard(participantID, cardID)
	if err != nil {
		return err
	}

	if !bothIn {
		// Primeira submissão da rodada: cada lado recebe a própria view
		// (o oponente só aprende o booleano "já jogou").
		c.notifyView(e.session, e.session.Creator(), EventBattleUpdate)
		c.notifyView(e.session, e.session.Joiner(), EventBattleUpdate)
		return nil
	}

	outcome, err := e.session.ResolveRound()
	if err != nil {
		return err
	}
	c.revealLocked(e, outcome)
	return nil
}

// GetBattleView devolve a projeção de leitura recortada para o participante.
func (c *Coordinator) GetBattleView(code, participantID string) (View, error) {
	e, err := c.lookup(code)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.View(participantID)
}

// CancelBattle desfaz uma batalha em waiting. Único cancelamento válido;
// o evento emitido carrega o stake a devolver.
func (c *Coordinator) CancelBattle(code, byID string) error {
	e, err := c.lookup(code)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.joining {
		return ErrNotCancellable
	}
	if err := e.session.Cancel(byID); err != nil {
		return err
	}
	e.doneAt = time.Now()

	log.Printf("[Coordinator] Battle %s cancelled by creator, refunding stake %d.", code, e.session.Stake())
	c.notifier.Notify(byID, Event{
		BattleCode: code,
		RoundIndex: e.session.RoundIndex(),
		Kind:       EventBattleCancelled,
		Payload:    CancelledPayload{RefundTo: byID, Stake: e.session.Stake()},
	})
	return nil
}

// ============================================================================
// Desconexão e reconexão
// ============================================================================

// HandleDisconnect arma o timer de forfeit para um participante que caiu
// no meio da batalha. A submissão do oponente, se houver, permanece retida.
func (c *Coordinator) HandleDisconnect(code, participantID string) {
	e, err := c.lookup(code)
	if err != nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.session.Status() {
	case StatusActive, StatusRoundPending, StatusRoundResolved:
	default:
		return
	}
	if !e.session.IsParticipant(participantID) {
		return
	}
	if _, armed := e.forfeitTimers[participantID]; armed {
		return
	}

	log.Printf("[Coordinator] Battle %s: %s disconnected, forfeit in %s unless they return.",
		code, participantID, c.cfg.ForfeitTimeout)
	e.forfeitTimers[participantID] = time.AfterFunc(c.cfg.ForfeitTimeout, func() {
		c.forfeit(code, participantID)
	})
}

// HandleReattach desarma o forfeit de um participante que voltou e devolve
// a view atual para ele se ressincronizar.
func (c *Coordinator) HandleReattach(code, participantID string) (View, error) {
	e, err := c.lookup(code)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if t, armed := e.forfeitTimers[participantID]; armed {
		t.Stop()
		delete(e.forfeitTimers, participantID)
		log.Printf("[Coordinator] Battle %s: %s reattached in time.", code, participantID)
	}
	return e.session.View(participantID)
}

// ============================================================================
// Transições internas dirigidas pelo relógio do coordenador
// ============================================================================

// revealLocked emite o reveal atômico para ambos e agenda o avanço da
// rodada após a janela de exibição. Chamado com e.mu segurado.
func (c *Coordinator) revealLocked(e *entry, outcome *RoundOutcome) {
	code := e.session.Code()
	log.Printf("[Coordinator] Battle %s: round %d revealed (attribute %s, winner %q).",
		code, outcome.RoundIndex, outcome.Attribute, outcome.Winner)

	ev := Event{BattleCode: code, RoundIndex: outcome.RoundIndex, Kind: EventRoundRevealed, Payload: outcome}
	c.notifier.Notify(e.session.Creator(), ev)
	c.notifier.Notify(e.session.Joiner(), ev)

	round := outcome.RoundIndex
	e.dwellTimer = time.AfterFunc(c.cfg.DwellTime, func() {
		c.advanceRound(code, round)
	})
}

// advanceRound é disparado pelo timer de dwell — nunca por um participante,
// para que ninguém consiga segurar o oponente indefinidamente.
func (c *Coordinator) advanceRound(code string, round int) {
	e, err := c.lookup(code)
	if err != nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Timer velho: a batalha já andou (forfeit, por exemplo).
	if e.session.Status() != StatusRoundResolved || e.session.RoundIndex() != round {
		return
	}

	finished, err := e.session.AdvanceRound()
	if err != nil {
		log.Printf("[Coordinator] Battle %s: advance failed: %v", code, err)
		return
	}

	if finished {
		c.finishLocked(e)
		return
	}

	c.notifyView(e.session, e.session.Creator(), EventBattleUpdate)
	c.notifyView(e.session, e.session.Joiner(), EventBattleUpdate)
}

// forfeit é o callback do timeout de desconexão: concede as rodadas
// restantes, e com elas a batalha, ao participante que ficou.
func (c *Coordinator) forfeit(code, disconnectedID string) {
	e, err := c.lookup(code)
	if err != nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, armed := e.forfeitTimers[disconnectedID]; !armed {
		return // reconectou entre o disparo do timer e o lock
	}
	delete(e.forfeitTimers, disconnectedID)

	winner := e.session.Opponent(disconnectedID)
	outcome, err := e.session.Forfeit(winner)
	if err != nil {
		log.Printf("[Coordinator] Battle %s: forfeit failed: %v", code, err)
		return
	}
	if e.dwellTimer != nil {
		e.dwellTimer.Stop()
	}

	log.Printf("[Coordinator] Battle %s: %s forfeited by disconnect timeout, %s wins.",
		code, disconnectedID, winner)

	ev := Event{BattleCode: code, RoundIndex: outcome.RoundIndex, Kind: EventRoundRevealed, Payload: outcome}
	c.notifier.Notify(e.session.Creator(), ev)
	c.notifier.Notify(e.session.Joiner(), ev)

	c.finishLocked(e)
}

// finishLocked fecha a batalha: emite BATTLE_FINISHED para ambos e dispara
// settlement e arquivamento uma única vez, fora do lock. Idempotente —
// uma transição de término entregue em duplicata não re-emite nada.
func (c *Coordinator) finishLocked(e *entry) {
	if e.settled {
		return
	}
	e.settled = true
	e.doneAt = time.Now()

	s := e.session
	winner, tie, err := s.Outcome()
	if err != nil {
		log.Printf("[Coordinator] Battle %s: outcome unavailable: %v", s.Code(), err)
		return
	}

	payload := FinishedPayload{Winner: winner, Tie: tie, Scores: s.Scores()}
	ev := Event{BattleCode: s.Code(), RoundIndex: s.RoundIndex(), Kind: EventBattleFinished, Payload: payload}
	c.notifier.Notify(s.Creator(), ev)
	c.notifier.Notify(s.Joiner(), ev)

	outcome := winner
	if tie {
		outcome = "tie"
	}
	req := SettlementRequest{
		BattleCode:          s.Code(),
		Outcome:             outcome,
		StakePerParticipant: s.Stake(),
	}
	rec := ArchiveRecord{
		BattleCode: s.Code(),
		Creator:    s.Creator(),
		Joiner:     s.Joiner(),
		Stake:      s.Stake(),
		Winner:     winner,
		Scores:     s.Scores(),
		Forfeited:  s.LastRound() != nil && s.LastRound().Forfeited,
	}

	log.Printf("[Coordinator] Battle %s finished: outcome %q, scores %v.", s.Code(), outcome, payload.Scores)

	// Pagamento e arquivo são colaboradores externos: nunca seguram o lock
	// da batalha nem bloqueiam o caminho de jogo.
	go c.settleAndArchive(req, rec)
}

func (c *Coordinator) settleAndArchive(req SettlementRequest, rec ArchiveRecord) {
	if c.settler != nil {
		if err := c.settler.RequestSettlement(req); err != nil {
			// Soft: o pagamento tem a sua própria re-tentativa; o jogo já acabou.
			log.Printf("[Coordinator] Battle %s: settlement request failed: %v", req.BattleCode, err)
		}
	}
	if c.archiver != nil {
		if err := c.archiver.SaveResult(rec); err != nil {
			log.Printf("[Coordinator] Battle %s: archive failed: %v", rec.BattleCode, err)
		}
	}
}

// ============================================================================
// Registro interno
// ============================================================================

func (c *Coordinator) lookup(code string) (*entry, error) {
	code = NormalizeCode(code)
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.battles[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBattleNotFound, code)
	}
	return e, nil
}

// cleanupDone descarta batalhas encerradas há mais tempo que a retenção e
// expira batalhas em waiting que nunca receberam um joiner, devolvendo o
// stake ao criador no evento de cancelamento.
func (c *Coordinator) cleanupDone() {
	c.mu.Lock()
	defer c.mu.Unlock()

	doneCutoff := time.Now().Add(-c.cfg.Retention)
	waitCutoff := time.Now().Add(-c.cfg.WaitingExpiry)

	for code, e := range c.battles {
		e.mu.Lock()
		s := e.session
		status := s.Status()

		if status == StatusWaiting && !e.joining && s.createdAt.Before(waitCutoff) {
			if err := s.Cancel(s.Creator()); err == nil {
				e.doneAt = time.Now()
				log.Printf("[Coordinator] Battle %s expired while waiting, refunding stake %d.", code, s.Stake())
				c.notifier.Notify(s.Creator(), Event{
					BattleCode: code,
					RoundIndex: s.RoundIndex(),
					Kind:       EventBattleCancelled,
					Payload:    CancelledPayload{RefundTo: s.Creator(), Stake: s.Stake()},
				})
			}
			e.mu.Unlock()
			continue
		}

		done := (status == StatusFinished || status == StatusCancelled) && !e.doneAt.IsZero() && e.doneAt.Before(doneCutoff)
		e.mu.Unlock()
		if done {
			delete(c.battles, code)
			log.Printf("[Coordinator] Battle %s cleaned up.", code)
		}
	}
}

// notifyView envia a view recortada do participante como payload do evento.
func (c *Coordinator) notifyView(s *Session, participantID string, kind EventKind) {
	if participantID == "" {
		return
	}
	view, err := s.View(participantID)
	if err != nil {
		return
	}
	c.notifier.Notify(participantID, Event{
		BattleCode: s.Code(),
		RoundIndex: s.RoundIndex(),
		Kind:       kind,
		Payload:    view,
	})
}

// Re-exportado para a camada de sessão mapear falhas de catálogo no join.
var ErrCatalogUnavailable = card.ErrCatalogUnavailable
