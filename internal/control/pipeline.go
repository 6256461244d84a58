// Package control implements the dispatcher/control component: the
// server session, the robot session, and the three cooperating loops
// that interleave them over the shared world model (spec.md §4.4, §5).
package control

import (
	"context"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"pacbot/internal/config"
	"pacbot/internal/model"
	"pacbot/internal/planner"
	"pacbot/internal/telemetry"
	"pacbot/internal/world"
)

// Pipeline wires the server session, the optional robot session, and the
// planner loop together, pacing planning at the configured game tick
// rate (spec.md §4.4).
type Pipeline struct {
	cfg     *config.Config
	state   *world.State
	session *Session
	robot   *RobotSession
	planner *planner.Planner
	metrics *telemetry.Metrics

	robotCur model.Location // dispatcher's belief about the robot's cell
}

// NewPipeline builds a Pipeline. robot may be nil when cfg.PythonSimulation
// is true, in which case planned actions are forwarded back to the
// server instead of to a physical robot.
func NewPipeline(cfg *config.Config, state *world.State, session *Session, robot *RobotSession) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		state:   state,
		session: session,
		robot:   robot,
		planner: planner.New(),
		metrics: telemetry.NewMetrics(),
	}
}

// Metrics exposes the dispatcher's running counters, for /status.
func (p *Pipeline) Metrics() *telemetry.Metrics {
	return p.metrics
}

// Run starts the server session's Sync loops alongside the planner loop
// and, in physical mode, the robot's comms loop, returning when any one
// of them fails or ctx is cancelled (spec.md §4.4's three cooperating
// loops).
func (p *Pipeline) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error { return p.session.Sync(groupCtx) })
	group.Go(func() error { return p.plannerLoop(groupCtx) })

	if !p.cfg.PythonSimulation && p.robot != nil {
		group.Go(func() error { return p.robot.ReceiveLoop(groupCtx) })
		group.Go(func() error { return p.commsLoop(groupCtx) })
	}

	return group.Wait()
}

// plannerLoop paces one plan invocation per game tick, waiting for the
// outbound queue to drain first and skipping while the game is paused
// (spec.md §4.4 "Planner loop").
func (p *Pipeline) plannerLoop(ctx context.Context) error {
	period := time.Second / time.Duration(p.cfg.GameFPS)
	ticker := channerics.NewTicker(ctx.Done(), period)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker:
			if p.state.QueueLen() > 0 {
				continue
			}
			if p.state.CurrentMode() == world.Paused {
				continue
			}
			p.planOnce()
		}
	}
}

func (p *Pipeline) planOnce() {
	p.state.Lock()
	defer p.state.Unlock()

	started := time.Now()
	victim, target := p.planner.Plan(p.state, predictedDelay(p.cfg.GameFPS))
	p.planner.LastVictim, p.planner.LastPelletTarget = victim, target
	p.metrics.PlanLatencyMs.Bump(float64(time.Since(started).Milliseconds()))
}

// predictedDelay converts the configured tick rate into the
// ticks-per-action pacing budget the planner expects, clamped to the
// [1,24] range spec.md §4.3 requires.
func predictedDelay(gameFPS uint16) int {
	if gameFPS == 0 {
		return 1
	}
	delay := 24 / int(gameFPS)
	if delay < 1 {
		return 1
	}
	if delay > 24 {
		return 24
	}
	return delay
}

// commsLoop manages the robot request/response session: it drains
// queued actions, coalesces same-direction runs when configured,
// applies the drop policy, and paces resends on the robot's ready
// signal (spec.md §4.4 "Comms loop").
func (p *Pipeline) commsLoop(ctx context.Context) error {
	if err := p.sendFlush(); err != nil {
		return err
	}
	if err := p.sendModeCommand(); err != nil {
		return err
	}

	backoff := channerics.NewTicker(ctx.Done(), 25*time.Millisecond)
	pending := []coalesced(nil)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.robot.Ready():
		case <-backoff:
		}

		if !p.robot.CaughtUp() {
			continue
		}

		if len(pending) == 0 {
			actions := p.state.DrainActions()
			if p.cfg.CoalesceCommands {
				pending = coalesce(actions)
			} else {
				pending = asSingles(actions)
			}
		}
		if len(pending) == 0 {
			continue
		}

		cmd, ok := p.toCommand(pending[0])
		pending = pending[1:]
		if !ok {
			p.metrics.CommandsDropped.Bump(1)
			continue
		}
		if err := p.robot.Send(cmd); err != nil {
			return err
		}
	}
}

func (p *Pipeline) sendFlush() error {
	pac := p.state.PacMan
	p.robotCur = pac
	return p.robot.Send(Command{Type: Flush, Row: byte(pac.Row), Col: byte(pac.Col)})
}

func (p *Pipeline) sendModeCommand() error {
	if p.state.CurrentMode() == world.Paused {
		return p.robot.Send(Command{Type: Stop})
	}
	return p.robot.Send(Command{Type: Start})
}

// coalesced is one or more consecutive same-direction actions merged
// into a single multi-cell move (spec.md §6 "CoalesceCommands").
type coalesced struct {
	direction model.Direction
	distance  int
}

func asSingles(actions []world.Action) []coalesced {
	out := make([]coalesced, len(actions))
	for i, a := range actions {
		out[i] = coalesced{direction: a.Direction, distance: 1}
	}
	return out
}

// coalesce merges consecutive same-direction actions into one move of
// increased distance (spec.md §6 "CoalesceCommands").
func coalesce(actions []world.Action) []coalesced {
	out := make([]coalesced, 0, len(actions))
	for _, a := range actions {
		if n := len(out); n > 0 && out[n-1].direction == a.Direction {
			out[n-1].distance++
			continue
		}
		out = append(out, coalesced{direction: a.Direction, distance: 1})
	}
	return out
}

// toCommand converts one queued (possibly coalesced) move into a robot
// MOVE, computing the target cell from the dispatcher's tracked
// position and applying the drop policy: if the back-tracked source
// cell disagrees with the world model's current Pac-Man cell, the
// command is dropped (spec.md §4.4 "Drop policy").
func (p *Pipeline) toCommand(c coalesced) (Command, bool) {
	nrow := p.robotCur.Row + c.distance*model.DRow[c.direction]
	ncol := p.robotCur.Col + c.distance*model.DCol[c.direction]

	sourceRow := nrow - c.distance*model.DRow[c.direction]
	sourceCol := ncol - c.distance*model.DCol[c.direction]
	if sourceRow != p.state.PacMan.Row || sourceCol != p.state.PacMan.Col {
		return Command{}, false
	}

	p.robotCur.Row, p.robotCur.Col = nrow, ncol
	return Command{
		Type:     Move,
		Row:      byte(nrow),
		Col:      byte(ncol),
		Dir:      robotDirCode(c.direction),
		Distance: byte(c.distance),
	}, true
}
