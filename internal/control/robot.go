package control

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"pacbot/internal/model"
)

// CommandType identifies a robot wire frame's purpose (spec.md §4.4).
type CommandType byte

const (
	Stop CommandType = iota
	Start
	Flush
	Move
)

// Robot-facing direction codes, distinct from model.Direction's server
// wire encoding (spec.md §4.4: "N=0, E=1, W=2, S=3").
const (
	dirNorth byte = 0
	dirEast  byte = 1
	dirWest  byte = 2
	dirSouth byte = 3
)

func robotDirCode(d model.Direction) byte {
	switch d {
	case model.Up:
		return dirNorth
	case model.Right:
		return dirEast
	case model.Left:
		return dirWest
	case model.Down:
		return dirSouth
	default:
		return dirNorth
	}
}

// Command is one outbound robot frame (spec.md §4.4).
type Command struct {
	Type     CommandType
	Row, Col byte // target cell for Move/Flush
	Dir      byte // direction code for Move
	Distance byte // cell count for Move
}

// seqMask keeps the sequence counter within its 14-bit range (two 7-bit
// bytes, spec.md §4.4).
const seqMask = 0x3fff

// commandFrameLen is the 1-byte-opening-brace + 8 payload bytes +
// 1-byte-closing-brace layout confirmed against
// original_source/bot_client/robotSocket.py's dispatch() (spec.md's
// prose says "6 payload bytes" but enumerates 8 fields; the original's
// literal wire format is authoritative, same kind of slip as the 150/152
// frame-size note in DESIGN.md).
const commandFrameLen = 10

// ackFrameLen is the 7-payload-byte ack frame (spec.md §6).
const ackFrameLen = 9

// maxConsecutiveTimeouts bounds how many 250ms read-deadline misses in a
// row the receive loop tolerates before giving up on the robot entirely
// (spec.md §4.4 "Cancellation/timeouts": a session loop terminates on
// transport close; sustained silence from a dead robot process is the UDP
// equivalent of that, since a connectionless socket never errors on its
// own).
const maxConsecutiveTimeouts = 40

// ErrSeqMismatch flags a robot ack whose echoed sequence is ahead of what
// the dispatcher last sent. Per spec.md §7 this is transient: the
// dispatcher resyncs its counters to the echoed value and carries on,
// rather than treating it as fatal.
var ErrSeqMismatch = errors.New("control: robot ack sequence ahead of last sent")

// ErrRobotUnresponsive is returned by ReceiveLoop once the robot has
// missed maxConsecutiveTimeouts read deadlines in a row (spec.md §4.4's
// "stalled robot" case, escalated past the comms loop's ordinary 25ms
// backoff once it's clear nothing is listening at all).
var ErrRobotUnresponsive = errors.New("control: robot unresponsive")

// RobotSession owns the UDP datagram conversation with the physical
// robot: framing, sequencing, ack tracking, and the done/ready gate
// (spec.md §4.4, grounded on original_source/bot_client/robotSocket.py).
type RobotSession struct {
	conn *net.UDPConn

	seq        uint16 // 14-bit sequence counter
	lastSent   uint16
	recvSeq    uint16
	done       bool
	readyEdges chan struct{} // fires on the done false→true edge

	consecutiveTimeouts int
}

// DialRobot opens the UDP socket to the robot's address.
func DialRobot(ip string, port uint16) (*RobotSession, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(ip), Port: int(port)}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("control: dialing robot at %s:%d: %w", ip, port, err)
	}
	return &RobotSession{
		conn:       conn,
		done:       true,
		readyEdges: make(chan struct{}, 1),
	}, nil
}

// Close releases the UDP socket.
func (r *RobotSession) Close() error {
	return r.conn.Close()
}

// Ready returns the channel that receives one value on every
// not-ready→ready transition reported by the robot (spec.md §4.4).
func (r *RobotSession) Ready() <-chan struct{} {
	return r.readyEdges
}

// CaughtUp reports whether the robot has acknowledged the last command
// the dispatcher sent (spec.md §4.4: "received_seq == last_sent_seq").
func (r *RobotSession) CaughtUp() bool {
	return r.recvSeq == r.lastSent
}

// encodeCommandFrame packs a command into the wire layout spec.md §4.4
// describes (framing `{`...`}` around seqHi/seqLo/type/row/col/dir/
// distance). Shared by RobotSession's UDP path and, when CoalesceCommands
// sends robot-protocol frames straight to the server, Session's websocket
// path (spec.md §6).
func encodeCommandFrame(seq uint16, cmd Command) []byte {
	frame := make([]byte, commandFrameLen)
	frame[0] = '{'
	frame[1] = 0x00
	frame[2] = byte((seq >> 7) & 0x7f)
	frame[3] = byte(seq & 0x7f)
	frame[4] = byte(cmd.Type)
	frame[5] = cmd.Row
	frame[6] = cmd.Col
	frame[7] = cmd.Dir
	frame[8] = cmd.Distance
	frame[9] = '}'
	return frame
}

// Send encodes and transmits a command frame, advancing the sequence
// counter first (spec.md §4.4: "On sending, seq is incremented").
func (r *RobotSession) Send(cmd Command) error {
	r.seq = (r.seq + 1) & seqMask
	frame := encodeCommandFrame(r.seq, cmd)

	if _, err := r.conn.Write(frame); err != nil {
		return fmt.Errorf("control: sending robot frame: %w", err)
	}
	r.lastSent = r.seq
	return nil
}

// ReceiveLoop blocks reading ack frames until ctx is cancelled or a read
// error occurs, updating sequence/ready state on each one (spec.md
// §4.4's comms-loop ready gating).
func (r *RobotSession) ReceiveLoop(ctx context.Context) error {
	buf := make([]byte, 64)
	for {
		if err := r.conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond)); err != nil {
			return fmt.Errorf("control: setting robot read deadline: %w", err)
		}

		n, err := r.conn.Read(buf)
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				r.consecutiveTimeouts++
				if r.consecutiveTimeouts >= maxConsecutiveTimeouts {
					return fmt.Errorf("control: %w after %d missed ack deadlines", ErrRobotUnresponsive, r.consecutiveTimeouts)
				}
				continue
			}
			return fmt.Errorf("control: reading robot ack: %w", err)
		}
		r.consecutiveTimeouts = 0
		if n < ackFrameLen {
			continue // malformed ack: drop, keep previous state
		}

		if err := r.applyAck(buf[:n]); err != nil && !errors.Is(err, ErrSeqMismatch) {
			return err
		}
	}
}

// seqAhead reports whether a is ahead of b in the 14-bit sequence space,
// taking the shorter direction around the wraparound as "ahead" (spec.md
// §7's ack-mismatch case only fires when the robot's echoed seq is
// genuinely ahead of what was sent, not merely stale).
func seqAhead(a, b uint16) bool {
	delta := (a - b) & seqMask
	return delta != 0 && delta <= seqMask/2
}

func (r *RobotSession) applyAck(frame []byte) error {
	seqHi, seqLo := frame[2], frame[3]
	recvSeq := uint16(seqHi&0x7f)<<7 | uint16(seqLo&0x7f)
	doneBit := frame[6] != 0

	var mismatch error
	if seqAhead(recvSeq, r.lastSent) {
		// Transient per spec.md §7: resync so the next Send continues
		// from the echoed value rather than repeating stale commands.
		prevLastSent := r.lastSent
		r.seq = recvSeq
		r.lastSent = recvSeq
		mismatch = fmt.Errorf("control: echoed seq %d ahead of last sent %d: %w", recvSeq, prevLastSent, ErrSeqMismatch)
	}

	wasDone := r.done
	r.recvSeq = recvSeq
	r.done = doneBit

	if !wasDone && doneBit {
		select {
		case r.readyEdges <- struct{}{}:
		default:
		}
	}
	return mismatch
}
