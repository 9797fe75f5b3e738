// Package pairing implements the Telegram channel pairing handshake.
//
// A pairing attempt runs four strictly sequential phases:
//  1. The caller verifies the bot token (internal/telegram).
//  2. WaitForStart polls updates until someone sends /start; that chat
//     becomes the candidate conversation.
//  3. SendCode generates a 6-digit one-time code and delivers it to the
//     candidate conversation; WaitForCode polls until the same chat echoes
//     the code back verbatim.
//  4. The caller persists the confirmed binding (internal/envfile).
//
// Each waiting phase enforces its own wall-clock deadline (default 5
// minutes) around short bounded polls, idling ~2s between polls to bound
// request rate. Transient poll failures never escape: they surface only as
// an empty batch, and the loop keeps going until its deadline.
package pairing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nextlevelbuilder/aetherclaw/internal/telegram"
)

const (
	// DefaultPhaseDeadline bounds each waiting phase (handshake and
	// challenge independently).
	DefaultPhaseDeadline = 5 * time.Minute

	// DefaultPollTimeout is the long-poll hold passed to getUpdates.
	DefaultPollTimeout = 30 * time.Second

	// DefaultIdleInterval is the pause between poll calls.
	DefaultIdleInterval = 2 * time.Second
)

// Terminal outcomes of a pairing attempt. Neither is retried internally;
// the operator decides whether to restart the whole flow.
var (
	ErrHandshakeTimeout = errors.New("pairing: no /start received before deadline")
	ErrChallengeTimeout = errors.New("pairing: code not confirmed before deadline")
)

// Poller reads new inbound events past the cursor, holding the request
// open up to timeout. Implementations swallow transient failures and
// return the cursor unchanged in that case.
type Poller interface {
	Poll(ctx context.Context, cursor telegram.Cursor, timeout time.Duration) ([]telegram.InboundEvent, telegram.Cursor)
}

// Messenger delivers a text message to one conversation.
type Messenger interface {
	Send(ctx context.Context, conversationID, text string) error
}

// Options are the flow's timer knobs. Zero values take the defaults above;
// tests run the state machine with compressed timers.
type Options struct {
	HandshakeDeadline time.Duration
	ChallengeDeadline time.Duration
	PollTimeout       time.Duration
	IdleInterval      time.Duration
}

func (o Options) withDefaults() Options {
	if o.HandshakeDeadline <= 0 {
		o.HandshakeDeadline = DefaultPhaseDeadline
	}
	if o.ChallengeDeadline <= 0 {
		o.ChallengeDeadline = DefaultPhaseDeadline
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = DefaultPollTimeout
	}
	if o.IdleInterval <= 0 {
		o.IdleInterval = DefaultIdleInterval
	}
	return o
}

// StartEvent reports who initiated the handshake.
type StartEvent struct {
	ConversationID string
	SenderName     string
}

// Flow drives one pairing attempt. It owns the update cursor for the
// attempt's lifetime; callers must not run two flows concurrently against
// the same bot token.
type Flow struct {
	poller    Poller
	messenger Messenger
	opts      Options

	cursor  telegram.Cursor
	session Session
}

// NewFlow creates a flow in the waiting_for_start state.
func NewFlow(p Poller, m Messenger, opts Options) *Flow {
	return &Flow{poller: p, messenger: m, opts: opts.withDefaults()}
}

// Session returns a snapshot of the current session.
func (f *Flow) Session() Session { return f.session }

// WaitForStart polls until a message whose text is exactly /start arrives
// from any conversation, and binds that conversation as the handshake
// initiator. Returns ErrHandshakeTimeout if the deadline passes first.
func (f *Flow) WaitForStart(ctx context.Context) (StartEvent, error) {
	deadline := time.Now().Add(f.opts.HandshakeDeadline)

	for time.Now().Before(deadline) {
		events, cursor := f.poller.Poll(ctx, f.cursor, f.opts.PollTimeout)
		f.cursor = cursor

		for _, ev := range events {
			if ev.Text != telegram.StartCommand {
				continue
			}
			f.session.ConversationID = ev.ConversationID
			f.session.transition(StateStarted)
			slog.Info("pairing: handshake received",
				"conversation", ev.ConversationID,
				"from", ev.SenderName,
			)
			return StartEvent{ConversationID: ev.ConversationID, SenderName: ev.SenderName}, nil
		}

		if err := idle(ctx, f.opts.IdleInterval); err != nil {
			return StartEvent{}, err
		}
	}

	f.session.transition(StateFailed)
	return StartEvent{}, ErrHandshakeTimeout
}

// SendCode generates the one-time code and delivers it to the handshake
// conversation. A delivery failure is returned as a warning alongside the
// code — the operator can still relay the code manually, so the flow may
// proceed to WaitForCode regardless.
func (f *Flow) SendCode(ctx context.Context) (string, error) {
	if f.session.State < StateStarted {
		return "", errors.New("pairing: no conversation bound yet")
	}

	code := generateCode()
	f.session.Code = code
	f.session.transition(StateCodeSent)

	msg := fmt.Sprintf(
		"👋 Hello! I'm Aether-Claw.\n\n"+
			"To complete pairing, send me this code:\n\n`%s`\n\n"+
			"This code will expire in 5 minutes.", code)

	if err := f.messenger.Send(ctx, f.session.ConversationID, msg); err != nil {
		slog.Warn("pairing: could not deliver code", "error", err)
		return code, err
	}

	slog.Info("pairing: code sent", "conversation", f.session.ConversationID)
	return code, nil
}

// WaitForCode polls until the bound conversation echoes the issued code
// back. Messages from other conversations are ignored without effect, and
// so is anything starting with the command prefix. Only exact string
// equality accepts. Returns ErrChallengeTimeout if the deadline passes.
func (f *Flow) WaitForCode(ctx context.Context) error {
	if f.session.State < StateCodeSent {
		return errors.New("pairing: no code issued yet")
	}

	deadline := time.Now().Add(f.opts.ChallengeDeadline)

	for time.Now().Before(deadline) {
		events, cursor := f.poller.Poll(ctx, f.cursor, f.opts.PollTimeout)
		f.cursor = cursor

		for _, ev := range events {
			if ev.ConversationID != f.session.ConversationID {
				continue
			}
			if strings.HasPrefix(ev.Text, telegram.CommandPrefix) {
				continue
			}
			if ev.Text == f.session.Code {
				f.session.transition(StatePaired)
				slog.Info("pairing: code verified", "conversation", ev.ConversationID)
				return nil
			}
		}

		if err := idle(ctx, f.opts.IdleInterval); err != nil {
			return err
		}
	}

	f.session.transition(StateFailed)
	return ErrChallengeTimeout
}

// SendConfirmation tells the paired conversation that pairing succeeded.
// Best effort: the binding is already confirmed at this point.
func (f *Flow) SendConfirmation(ctx context.Context) {
	if f.session.State != StatePaired {
		return
	}
	msg := "✅ Pairing successful!\n\n" +
		"I'm now connected to your Aether-Claw instance. " +
		"You can chat with me here, and I'll respond as your AI assistant."
	if err := f.messenger.Send(ctx, f.session.ConversationID, msg); err != nil {
		slog.Warn("pairing: could not send confirmation", "error", err)
	}
}

// idle pauses between polls, honoring context cancellation so an abort
// does not have to wait out the pause.
func idle(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
