// Package dialog implements the turn-based dialogue engine: typed tools
// with validated dispatch, roles swappable mid-conversation via handoff,
// and the per-session turn state machine that ties a final transcript to
// spoken output through one model decision.
package dialog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voicedesk/voicedesk/internal/domain"
	"github.com/voicedesk/voicedesk/internal/hooks"
	"github.com/voicedesk/voicedesk/internal/llm"
	"github.com/voicedesk/voicedesk/internal/logging"
)

// SessionLog receives the durable copy of a session's transcript. Writes
// must not fail the conversation; implementations log and drop.
type SessionLog interface {
	Create(sess domain.Session)
	Append(sessionID string, msg domain.Message)
}

// Bundle is everything an assistant contributes to a new session: its role
// table and the role that starts active. The handlers inside the roles'
// tool sets close over the assistant's per-session state.
type Bundle struct {
	Assistant string
	Roles     map[RoleID]*Role
	Start     RoleID
}

// Usage accumulates per-session counters, logged when the session ends.
type Usage struct {
	Turns        int
	ToolCalls    int
	Handoffs     int
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// Session is one live conversation: role table, active role, history, and
// turn machinery. A session is exclusively owned by its engine; mu
// serializes its turns, so a second transcript waits for the current turn.
type Session struct {
	ID        string
	Assistant string

	// OnState, when set, observes every turn-state change. Set it before
	// the first turn; it is called with the session lock held.
	OnState func(from, to TurnState)

	mu      sync.Mutex
	roles   map[RoleID]*Role
	active  RoleID
	history []llm.Message
	state   TurnState
	usage   Usage
	started time.Time
}

// ActiveRole returns the id of the currently active role.
func (s *Session) ActiveRole() RoleID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Voice returns the active role's voice hint.
func (s *Session) Voice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.roles[s.active]; ok {
		return r.Voice
	}
	return ""
}

// State returns the current turn state.
func (s *Session) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the conversation history.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.history...)
}

// Usage returns a snapshot of the session's usage counters.
func (s *Session) Usage() Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// Config wires an engine's collaborators.
type Config struct {
	Client       llm.Client
	Model        string
	MaxTokens    int
	MaxToolCalls int // per-decision cap on tool invocations; 0 means uncapped
	Temperature  *float64
	Hooks        *hooks.Manager
	Log          *logging.Logger
	SessionLog   SessionLog // nil disables transcript persistence
}

// Engine drives turn-based dialogues for all live sessions. Sessions never
// share state with each other; within one session, turns run one at a time.
type Engine struct {
	cfg   Config
	hooks *hooks.Manager
	log   *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewEngine creates a dialogue engine.
func NewEngine(cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = logging.New(nil, "silent")
	}
	h := cfg.Hooks
	if h == nil {
		h = hooks.NewManager(log)
	}
	return &Engine{
		cfg:      cfg,
		hooks:    h,
		log:      log.Sub("dialog"),
		sessions: make(map[string]*Session),
	}
}

// StartSession creates a session for the bundle and returns it together
// with the starting role's entry lines. An empty id gets a generated one.
func (e *Engine) StartSession(ctx context.Context, id string, b Bundle) (*Session, []string, error) {
	start, ok := b.Roles[b.Start]
	if !ok {
		return nil, nil, fmt.Errorf("assistant %s: no role %q", b.Assistant, b.Start)
	}
	if id == "" {
		id = uuid.New().String()
	}

	s := &Session{
		ID:        id,
		Assistant: b.Assistant,
		roles:     b.Roles,
		active:    b.Start,
		state:     StateIdle,
		started:   time.Now(),
	}

	e.mu.Lock()
	if _, exists := e.sessions[id]; exists {
		e.mu.Unlock()
		return nil, nil, fmt.Errorf("session %s already active", id)
	}
	e.sessions[id] = s
	e.mu.Unlock()

	if e.cfg.SessionLog != nil {
		e.cfg.SessionLog.Create(domain.Session{
			ID:        id,
			Assistant: b.Assistant,
			CreatedAt: s.started,
			UpdatedAt: s.started,
		})
	}

	e.log.Info().
		Str("session", id).
		Str("assistant", b.Assistant).
		Str("role", string(b.Start)).
		Msg("session started")
	e.hooks.Emit(ctx, hooks.EventSessionStart, map[string]any{
		"session":   id,
		"assistant": b.Assistant,
	})

	lines := splitLines(start.Enter(ctx))
	if len(lines) > 0 {
		s.mu.Lock()
		e.appendAssistant(s, lines, nil)
		s.mu.Unlock()
	}
	return s, lines, nil
}

// Session returns a live session by id, or nil.
func (e *Engine) Session(id string) *Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sessions[id]
}

// Sessions returns the ids of all live sessions.
func (e *Engine) Sessions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Hear marks the session as receiving speech. Gateways call it on partial
// transcripts; a final transcript goes straight to Turn.
func (e *Engine) Hear(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		e.setState(s, StateListening)
	}
}

// Turn runs one full turn for a final transcript: one model decision, its
// tool calls strictly in order against the role that made the decision,
// then any handoff. The returned lines are spoken in order.
func (e *Engine) Turn(ctx context.Context, s *Session, transcript string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turnStart := time.Now()
	e.hooks.Emit(ctx, hooks.EventTurnStart, map[string]any{"session": s.ID})

	if s.state == StateIdle {
		e.setState(s, StateListening)
	}

	role := s.roles[s.active]
	e.appendUser(s, transcript)

	e.setState(s, StateDeciding)
	req := llm.CompletionRequest{
		Model:       e.cfg.Model,
		System:      role.Instructions,
		Messages:    append([]llm.Message(nil), s.history...),
		Tools:       role.Tools.Definitions(),
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}

	resp, err := e.cfg.Client.Complete(ctx, req)
	if err != nil {
		e.abandon(s)
		return nil, fmt.Errorf("model decision: %w", err)
	}

	s.usage.Turns++
	s.usage.InputTokens += resp.Usage.InputTokens
	s.usage.OutputTokens += resp.Usage.OutputTokens
	s.usage.CostUSD += resp.CostUSD

	var spoken []string
	if text := strings.TrimSpace(resp.Content); text != "" {
		spoken = append(spoken, text)
	}

	var executed []domain.ToolCall
	var handoff RoleID

	calls := resp.ToolCalls
	if limit := e.cfg.MaxToolCalls; limit > 0 && len(calls) > limit {
		e.log.Warn().
			Str("session", s.ID).
			Int("requested", len(calls)).
			Int("cap", limit).
			Msg("tool calls truncated to per-decision cap")
		calls = calls[:limit]
	}

	if len(calls) > 0 {
		e.setState(s, StateExecuting)
		for _, call := range calls {
			if ctx.Err() != nil {
				e.abandon(s)
				return nil, ctx.Err()
			}

			result, callErr := role.Tools.Dispatch(ctx, call.Name, call.Input)
			line := result.Say
			if callErr != nil {
				line = SpokenError(callErr)
				e.log.Warn().
					Err(callErr).
					Str("session", s.ID).
					Str("tool", call.Name).
					Msg("tool call failed")
			} else {
				e.log.Debug().
					Str("session", s.ID).
					Str("tool", call.Name).
					Msg("tool executed")
			}

			s.usage.ToolCalls++
			e.hooks.Emit(ctx, hooks.EventToolCall, map[string]any{
				"session": s.ID,
				"tool":    call.Name,
			})

			if line != "" {
				spoken = append(spoken, line)
			}
			executed = append(executed, domain.ToolCall{
				ID:     call.ID,
				Name:   call.Name,
				Input:  call.Input,
				Output: line,
			})
			if result.Handoff != "" {
				handoff = result.Handoff
			}
		}
	}

	if handoff != "" {
		spoken = append(spoken, e.swapRole(ctx, s, handoff)...)
	}

	lines := splitLines(spoken)
	e.setState(s, StateSpeaking)
	e.appendAssistant(s, lines, executed)
	e.setState(s, StateIdle)

	e.hooks.Emit(ctx, hooks.EventTurnEnd, map[string]any{
		"session": s.ID,
		"lines":   len(lines),
	})
	e.log.Info().
		Str("session", s.ID).
		Str("role", string(s.active)).
		Int("toolCalls", len(executed)).
		Int("inputTokens", resp.Usage.InputTokens).
		Int("outputTokens", resp.Usage.OutputTokens).
		Dur("duration", time.Since(turnStart)).
		Msg("turn complete")

	return lines, nil
}

// EndSession removes the session and logs its usage summary. Cancel the
// turn context first to abandon an in-flight turn; completed tool effects
// stay.
func (e *Engine) EndSession(ctx context.Context, s *Session) {
	e.mu.Lock()
	delete(e.sessions, s.ID)
	e.mu.Unlock()

	s.mu.Lock()
	e.abandon(s)
	u := s.usage
	dur := time.Since(s.started)
	s.mu.Unlock()

	e.log.Info().
		Str("session", s.ID).
		Str("assistant", s.Assistant).
		Int("turns", u.Turns).
		Int("toolCalls", u.ToolCalls).
		Int("handoffs", u.Handoffs).
		Int("inputTokens", u.InputTokens).
		Int("outputTokens", u.OutputTokens).
		Float64("costUsd", u.CostUSD).
		Dur("duration", dur).
		Msg("session ended")

	e.hooks.Emit(ctx, hooks.EventSessionEnd, map[string]any{
		"session":      s.ID,
		"assistant":    s.Assistant,
		"turns":        u.Turns,
		"toolCalls":    u.ToolCalls,
		"inputTokens":  u.InputTokens,
		"outputTokens": u.OutputTokens,
	})
}

// swapRole makes target the active role and runs its entry hook once.
// History carries over untouched. Called with s.mu held.
func (e *Engine) swapRole(ctx context.Context, s *Session, target RoleID) []string {
	next, ok := s.roles[target]
	if !ok {
		e.log.Error().
			Str("session", s.ID).
			Str("role", string(target)).
			Msg("handoff to unknown role ignored")
		return nil
	}
	prev := s.active
	s.active = target
	s.usage.Handoffs++

	e.log.Info().
		Str("session", s.ID).
		Str("from", string(prev)).
		Str("to", string(target)).
		Msg("role handoff")
	e.hooks.Emit(ctx, hooks.EventHandoff, map[string]any{
		"session": s.ID,
		"from":    string(prev),
		"to":      string(target),
	})

	return next.Enter(ctx)
}

// setState applies a turn-state transition. Called with s.mu held.
func (e *Engine) setState(s *Session, next TurnState) {
	if s.state == next {
		return
	}
	if !s.state.CanTransition(next) {
		e.log.Error().
			Str("session", s.ID).
			Str("from", s.state.String()).
			Str("to", next.String()).
			Msg("illegal turn transition")
	}
	prev := s.state
	s.state = next
	if s.OnState != nil {
		s.OnState(prev, next)
	}
}

// abandon returns the session to Idle outside the normal turn order, used
// when a turn fails or the session ends mid-turn. Called with s.mu held.
func (e *Engine) abandon(s *Session) {
	if s.state == StateIdle {
		return
	}
	prev := s.state
	s.state = StateIdle
	if s.OnState != nil {
		s.OnState(prev, StateIdle)
	}
}

// appendUser records the caller's transcript in history and the session log.
// Called with s.mu held.
func (e *Engine) appendUser(s *Session, text string) {
	s.history = append(s.history, llm.Message{Role: llm.RoleUser, Content: text})
	if e.cfg.SessionLog != nil {
		e.cfg.SessionLog.Append(s.ID, domain.Message{
			Role:      llm.RoleUser,
			Content:   text,
			Timestamp: time.Now(),
		})
	}
}

// appendAssistant records the turn's spoken lines as one assistant history
// entry so the next decision sees them. Called with s.mu held.
func (e *Engine) appendAssistant(s *Session, lines []string, calls []domain.ToolCall) {
	if len(lines) == 0 && len(calls) == 0 {
		return
	}
	content := strings.Join(lines, "\n")
	s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: content})
	if e.cfg.SessionLog != nil {
		e.cfg.SessionLog.Append(s.ID, domain.Message{
			Role:      llm.RoleAssistant,
			Content:   content,
			Timestamp: time.Now(),
			ToolCalls: calls,
		})
	}
}

// splitLines flattens spoken chunks into single-line speak events.
func splitLines(chunks []string) []string {
	var lines []string
	for _, c := range chunks {
		for _, ln := range strings.Split(c, "\n") {
			ln = strings.TrimSpace(ln)
			if ln != "" {
				lines = append(lines, ln)
			}
		}
	}
	return lines
}
