package control

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"pacbot/internal/model"
	"pacbot/internal/world"
)

const (
	writeWait      = 1 * time.Second
	pingResolution = 200 * time.Millisecond
	pongWait       = pingResolution * 4
)

// ErrPongDeadlineExceeded reports a dead server connection.
var ErrPongDeadlineExceeded = errors.New("control: server disconnect, pong deadline exceeded")

// ErrSockCongestion indicates too many concurrent waiters on the socket.
var ErrSockCongestion = errors.New("control: socket op failed due to congestion")

const (
	readDeadline  = time.Second
	writeDeadline = time.Second
)

// websock serializes reads and writes to a websocket connection, since
// gorilla/websocket permits at most one concurrent reader and one
// concurrent writer (grounded on server/fastview/client.go's websock).
type websock struct {
	readSem  chan struct{}
	writeSem chan struct{}
	ws       *websocket.Conn
}

func newWebsock(ws *websocket.Conn) *websock {
	return &websock{
		readSem:  make(chan struct{}, 1),
		writeSem: make(chan struct{}, 1),
		ws:       ws,
	}
}

func (sock *websock) read(ctx context.Context, fn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.readSem <- struct{}{}:
		defer func() { <-sock.readSem }()
		return fn(sock.ws)
	case <-time.After(readDeadline):
		return ErrSockCongestion
	}
}

func (sock *websock) write(ctx context.Context, fn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.writeSem <- struct{}{}:
		defer func() { <-sock.writeSem }()
		return fn(sock.ws)
	case <-time.After(writeDeadline):
		return ErrSockCongestion
	}
}

// Session is the client-side websocket conversation with the game
// server: it reads state frames into the shared world model and writes
// outbound moves (spec.md §4.4's receive/comms loops, the server half).
type Session struct {
	ws    *websock
	state *world.State

	// coalesce, when true, sends robot-protocol command frames instead of
	// single direction bytes (spec.md §6).
	coalesce bool
}

// DialServer connects to the game server's websocket endpoint.
func DialServer(url string, state *world.State, coalesceCommands bool) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("control: dialing server %s: %w", url, err)
	}
	state.SetConnected(true)
	return &Session{ws: newWebsock(conn), state: state, coalesce: coalesceCommands}, nil
}

// Sync runs the receive, ping/pong liveness, and outbound-write loops
// until one fails or ctx is cancelled (grounded on
// server/fastview/client.go's client.Sync()).
func (s *Session) Sync(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error { return s.receiveLoop(groupCtx) })
	group.Go(func() error { return s.pingPong(groupCtx) })
	group.Go(func() error { return s.writeLoop(groupCtx) })

	err := group.Wait()
	s.state.SetConnected(false)
	return err
}

// receiveLoop reads inbound state frames and applies them to the world
// model (spec.md §4.4 "Receive loop").
func (s *Session) receiveLoop(ctx context.Context) error {
	for {
		var payload []byte
		err := s.ws.read(ctx, func(ws *websocket.Conn) error {
			_, data, readErr := ws.ReadMessage()
			payload = data
			return readErr
		})
		if err != nil {
			return err
		}
		if len(payload) != world.FrameSize {
			continue // malformed frame: drop, keep previous state (spec.md §7)
		}
		if err := s.state.UpdateFromFrame(payload, false); err != nil {
			continue
		}
	}
}

func (s *Session) pingPong(ctx context.Context) error {
	pong := make(chan struct{}, 1)
	s.ws.ws.SetPongHandler(func(_ string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	ticker := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			err := s.ws.write(ctx, func(ws *websocket.Conn) error {
				return ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			})
			if err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

// writeLoop drains the world model's outbound action queue and writes it
// to the server: single ASCII direction bytes ordinarily, or merged
// robot-protocol MOVE frames when CoalesceCommands is set (spec.md §6
// "the outbound path may instead send the robot-protocol frame... directly
// to the server").
func (s *Session) writeLoop(ctx context.Context) error {
	ticker := channerics.NewTicker(ctx.Done(), 10*time.Millisecond)
	pos := s.state.PacMan
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker:
			actions := s.state.DrainActions()
			if len(actions) == 0 {
				continue
			}

			var merged []coalesced
			if s.coalesce {
				merged = coalesce(actions)
			} else {
				merged = asSingles(actions)
			}

			for _, c := range merged {
				var err error
				if s.coalesce {
					pos, err = s.writeCoalesced(ctx, pos, c)
				} else {
					err = s.writeAction(ctx, c.direction)
				}
				if err != nil {
					return err
				}
			}
		}
	}
}

func (s *Session) writeAction(ctx context.Context, dir model.Direction) error {
	return s.ws.write(ctx, func(ws *websocket.Conn) error {
		if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return fmt.Errorf("control: setting write deadline: %w", err)
		}
		return ws.WriteMessage(websocket.TextMessage, []byte{model.DMessage[dir]})
	})
}

// writeCoalesced sends one merged same-direction run as a single
// robot-protocol MOVE frame, tracking the session's own running belief of
// Pac-Man's cell across calls since there is no separate robot actuator
// to drift from in simulation mode (spec.md §6).
func (s *Session) writeCoalesced(ctx context.Context, pos model.Location, c coalesced) (model.Location, error) {
	next := model.Location{
		Row: pos.Row + c.distance*model.DRow[c.direction],
		Col: pos.Col + c.distance*model.DCol[c.direction],
	}
	cmd := Command{
		Type:     Move,
		Row:      byte(next.Row),
		Col:      byte(next.Col),
		Dir:      robotDirCode(c.direction),
		Distance: byte(c.distance),
	}
	frame := encodeCommandFrame(0, cmd)

	err := s.ws.write(ctx, func(ws *websocket.Conn) error {
		if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return fmt.Errorf("control: setting write deadline: %w", err)
		}
		return ws.WriteMessage(websocket.BinaryMessage, frame)
	})
	return next, err
}
