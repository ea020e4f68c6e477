package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/coach-cli/internal/domain"
	"github.com/bnema/coach-cli/internal/ports"
	"go.uber.org/zap"
)

var ErrSessionBusy = errors.New("session is awaiting a reply")

type SendOutcome int

const (
	// SendSkipped means nothing was appended: empty text, unknown session or
	// a reply still pending for the session.
	SendSkipped SendOutcome = iota
	SendAnswered
	SendFallback
)

func (o SendOutcome) String() string {
	switch o {
	case SendAnswered:
		return "answered"
	case SendFallback:
		return "fallback"
	default:
		return "skipped"
	}
}

// SendResult describes one send cycle. Err is informational; the failure it
// describes has already been turned into a fallback message or a no-op.
type SendResult struct {
	Outcome SendOutcome
	Reply   domain.Message
	Err     error
}

type Dispatcher struct {
	workspace *Workspace
	remote    ports.CoachService
	clock     ports.Clock
	logger    *zap.Logger
}

func NewDispatcher(workspace *Workspace, remote ports.CoachService, clock ports.Clock, logger *zap.Logger) *Dispatcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{workspace: workspace, remote: remote, clock: clock, logger: logger}
}

// Send runs one request/reply cycle for the session. The user message is
// stored before the request is issued and the reply, or a fallback, is
// stored once it settles, whether or not the session is still active.
func (d *Dispatcher) Send(ctx context.Context, id domain.SessionID, text string) SendResult {
	id = domain.NormalizeSessionID(string(id))
	text = strings.TrimSpace(text)
	if text == "" {
		return SendResult{Outcome: SendSkipped}
	}

	store := d.workspace.Store()
	known, err := store.Has(ctx, id)
	if err != nil {
		d.logger.Error("look up session", zap.String("session", string(id)), zap.Error(err))
		return SendResult{Outcome: SendSkipped, Err: err}
	}
	if !known {
		d.logger.Debug("send to unknown session ignored", zap.String("session", string(id)))
		return SendResult{Outcome: SendSkipped, Err: fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)}
	}

	release, ok := d.workspace.acquire(id)
	if !ok {
		d.logger.Debug("send while awaiting reply ignored", zap.String("session", string(id)))
		return SendResult{Outcome: SendSkipped, Err: ErrSessionBusy}
	}
	defer release()

	if _, err := store.AppendLog(ctx, id, domain.NewUserMessage(text, d.clock.Now())); err != nil {
		d.logger.Error("persist user message", zap.String("session", string(id)), zap.Error(err))
		return SendResult{Outcome: SendSkipped, Err: fmt.Errorf("persist user message: %w", err)}
	}
	d.workspace.markAwaiting(id)

	reply, outcome, callErr := d.exchange(ctx, id, text)

	stored, err := store.AppendLog(context.WithoutCancel(ctx), id, reply)
	if err != nil {
		d.logger.Error("persist reply", zap.String("session", string(id)), zap.Error(err))
		return SendResult{Outcome: outcome, Reply: reply, Err: errors.Join(callErr, fmt.Errorf("persist reply: %w", err))}
	}

	if id != d.workspace.ActiveID() {
		d.logger.Debug("stored reply for inactive session", zap.String("session", string(id)))
	}

	return SendResult{Outcome: outcome, Reply: stored, Err: callErr}
}

func (d *Dispatcher) exchange(ctx context.Context, id domain.SessionID, text string) (domain.Message, SendOutcome, error) {
	payload, err := d.remote.Chat(ctx, id, text)
	if err != nil {
		d.logger.Warn("chat request failed", zap.String("session", string(id)), zap.Error(err))
		return domain.NewBotMessage(FallbackReplyText, d.clock.Now()), SendFallback, err
	}

	return NormalizeResponse(payload, d.clock.Now()), SendAnswered, nil
}
