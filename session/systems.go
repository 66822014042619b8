package session

import (
	"github.com/plus3/planetdrop/ecs"
	"github.com/plus3/planetdrop/merge"
)

type clockSystem struct {
	session *Session
	Tick    ecs.Singleton[TickInfo]
}

func (s *clockSystem) Execute(frame *ecs.UpdateFrame) {
	tick := s.Tick.Get()
	tick.Now = s.session.clock.Now()
	tick.Ticks++
}

type stepSystem struct {
	session *Session
}

func (s *stepSystem) Execute(frame *ecs.UpdateFrame) {
	s.session.world.Step()
}

// mergeSystem applies the merges decided from the contacts of this tick's
// step. Consumed entities are deleted and successor entities spawned through
// frame commands, so the danger scan sees the merged board.
type mergeSystem struct {
	session *Session
	Score   ecs.Singleton[Scoreboard]
}

func (s *mergeSystem) Execute(frame *ecs.UpdateFrame) {
	sess := s.session
	decisions := merge.Resolve(sess.world.Contacts(), sess.world.Body, sess.table)
	if len(decisions) == 0 {
		return
	}

	board := s.Score.Get()
	for _, d := range decisions {
		sess.destroyPiece(d.Consumed[0], frame.Commands)
		sess.destroyPiece(d.Consumed[1], frame.Commands)

		board.Score += d.Score
		board.Merges++

		event := MergeEvent{
			Consumed: d.Consumed,
			X:        d.X,
			Y:        d.Y,
			From:     d.From,
			Score:    d.Score,
			Total:    board.Score,
		}
		if !d.Terminal {
			snap, err := sess.createPiece(d.X, d.Y, d.Into.Index, 0, frame.Commands.SpawnThen)
			if err != nil {
				sess.logger.Error("spawn merged piece", "rank", d.Into.Index, "err", err)
			} else {
				event.Result = &snap
			}
		}

		sess.logger.Debug("merge",
			"rank", d.From.Name,
			"into", d.Into.Name,
			"terminal", d.Terminal,
			"score", board.Score,
		)
		sess.hooks.merge(event)
	}
}

// dangerSystem recomputes every piece's danger timer and ends the game when
// one expires. The rest of the frame is skipped on game over.
type dangerSystem struct {
	session *Session
	Tick    ecs.Singleton[TickInfo]
	Status  ecs.Singleton[Status]
	Pieces  ecs.Query[struct {
		*Piece
		*Danger
	}]
}

func (s *dangerSystem) Execute(frame *ecs.UpdateFrame) {
	sess := s.session
	rules := sess.cfg.Rules
	now := s.Tick.Get().Now
	status := s.Status.Get()
	status.InDanger = false

	for _, p := range s.Pieces.Iter() {
		body, ok := sess.world.Body(p.Piece.Body)
		if !ok {
			continue
		}

		next, expired := advanceDanger(*p.Danger, endangered(body, rules), now, rules.GracePeriod)
		*p.Danger = next
		if next.Open {
			status.InDanger = true
		}
		if expired {
			sess.endGame(now)
			frame.Stop()
			return
		}
	}
}

// shakeSystem charges for an active shake every interval and jitters the
// walls around their rest position every tick.
type shakeSystem struct {
	session *Session
	Tick    ecs.Singleton[TickInfo]
	Score   ecs.Singleton[Scoreboard]
	Shake   ecs.Singleton[ShakeState]
	Status  ecs.Singleton[Status]
}

func (s *shakeSystem) Execute(frame *ecs.UpdateFrame) {
	shake := s.Shake.Get()
	if !shake.Active || s.Status.Get().GameOver {
		return
	}

	sess := s.session
	rules := sess.cfg.Rules
	now := s.Tick.Get().Now

	if now.Sub(shake.LastDeduct) >= rules.ShakeInterval {
		board := s.Score.Get()
		board.Score = max(0, board.Score-rules.ShakeCost)
		shake.LastDeduct = now
		if board.Score <= rules.ShakeMinScore {
			sess.logger.Debug("shake exhausted", "score", board.Score)
			sess.stopShake()
			return
		}
	}

	amp := rules.ShakeAmplitude
	shake.OffsetX = sess.rng.IntN(2*amp+1) - amp
	shake.OffsetY = sess.rng.IntN(2*amp+1) - amp
	sess.world.ShakeBoundary(float64(shake.OffsetX), float64(shake.OffsetY))
}
