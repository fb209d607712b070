package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/voicedesk/voicedesk/internal/dialog"
)

// AssistantSource resolves assistant names to fresh role bundles.
type AssistantSource interface {
	Names() []string
	Bundle(name string) (dialog.Bundle, error)
}

// liveSession pairs a dialogue session with the connection that drives it.
// Each connection carries at most one session.
type liveSession struct {
	sess       *dialog.Session
	client     *Client
	lastActive time.Time
}

// turnTimeout bounds one full turn, model decision and tool execution included.
const turnTimeout = 2 * time.Minute

// SessionStartParams are the params for the session.start method.
type SessionStartParams struct {
	Assistant string `json:"assistant,omitempty"` // empty uses the configured default
}

// SessionStartedPayload is the session.start response.
type SessionStartedPayload struct {
	SessionID string `json:"sessionId"`
	Assistant string `json:"assistant"`
	Role      string `json:"role"`
	Voice     string `json:"voice,omitempty"`
}

// TranscriptParams are the params for the transcript method.
type TranscriptParams struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// SpeakPayload is one spoken line, sent as a "speak" event. Lines of a turn
// arrive as separate events in speaking order.
type SpeakPayload struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
	Voice     string `json:"voice,omitempty"`
}

// StatePayload reports a turn-state transition as a "session.state" event.
type StatePayload struct {
	SessionID string `json:"sessionId"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// RolePayload reports a role handoff as a "session.role" event.
type RolePayload struct {
	SessionID string `json:"sessionId"`
	Role      string `json:"role"`
	Voice     string `json:"voice,omitempty"`
}

// SessionEndedPayload reports a server-initiated session end.
type SessionEndedPayload struct {
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
}

// rpcSessionStart opens a dialogue session on this connection and speaks the
// starting role's greeting.
func (s *Server) rpcSessionStart(rc *RequestContext) {
	if s.engine == nil || s.assistants == nil {
		rc.RespondError("unavailable", "no dialogue engine configured")
		return
	}

	var p SessionStartParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}

	name := strings.TrimSpace(p.Assistant)
	if name == "" {
		name = s.cfg.Assistants.Default
	}

	bundle, err := s.assistants.Bundle(name)
	if err != nil {
		rc.RespondError("unknown_assistant", err.Error())
		return
	}

	// Frames from one connection dispatch serially, so the check cannot
	// race with another session.start on the same connection.
	if s.lookupSession(rc.Client.ConnID) != nil {
		rc.RespondError("session_active", "a session is already active on this connection")
		return
	}

	sess, greeting, err := s.engine.StartSession(context.Background(), "", bundle)
	if err != nil {
		rc.RespondError("session_error", err.Error())
		return
	}

	s.bindStateEvents(rc.Client, sess)

	s.sessMu.Lock()
	s.sessions[rc.Client.ConnID] = &liveSession{
		sess:       sess,
		client:     rc.Client,
		lastActive: time.Now(),
	}
	s.sessMu.Unlock()

	rc.Respond(SessionStartedPayload{
		SessionID: sess.ID,
		Assistant: sess.Assistant,
		Role:      string(sess.ActiveRole()),
		Voice:     sess.Voice(),
	})

	s.emitSpeak(rc.Client, sess, greeting)
}

// rpcTranscript feeds one transcript frame into the connection's session.
// A partial transcript only moves the state machine to listening; a final
// transcript runs a full turn and its lines go out as ordered speak events.
func (s *Server) rpcTranscript(rc *RequestContext) {
	ls := s.lookupSession(rc.Client.ConnID)
	if ls == nil {
		rc.RespondError("no_session", "no active session on this connection")
		return
	}

	var p TranscriptParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}

	s.touchSession(rc.Client.ConnID)

	if !p.Final {
		s.engine.Hear(ls.sess)
		rc.Respond(map[string]any{
			"sessionId": ls.sess.ID,
			"state":     ls.sess.State().String(),
		})
		return
	}

	if strings.TrimSpace(p.Text) == "" {
		rc.RespondError("invalid_params", "text is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	before := ls.sess.ActiveRole()
	lines, err := s.engine.Turn(ctx, ls.sess, p.Text)
	if err != nil {
		rc.RespondError("turn_failed", err.Error())
		return
	}

	if after := ls.sess.ActiveRole(); after != before {
		s.sendEvent(rc.Client, "session.role", RolePayload{
			SessionID: ls.sess.ID,
			Role:      string(after),
			Voice:     ls.sess.Voice(),
		})
	}

	s.emitSpeak(rc.Client, ls.sess, lines)

	rc.Respond(map[string]any{
		"sessionId": ls.sess.ID,
		"lines":     len(lines),
	})
}

// rpcSessionEnd closes the connection's session and reports its usage.
func (s *Server) rpcSessionEnd(rc *RequestContext) {
	ls := s.detachSession(rc.Client.ConnID)
	if ls == nil {
		rc.RespondError("no_session", "no active session on this connection")
		return
	}

	u := ls.sess.Usage()
	s.engine.EndSession(context.Background(), ls.sess)

	rc.Respond(map[string]any{
		"sessionId": ls.sess.ID,
		"usage": map[string]any{
			"turns":        u.Turns,
			"toolCalls":    u.ToolCalls,
			"handoffs":     u.Handoffs,
			"inputTokens":  u.InputTokens,
			"outputTokens": u.OutputTokens,
			"costUsd":      u.CostUSD,
		},
	})
}

// bindStateEvents streams turn-state transitions to the owning client.
// OnState runs with the session lock held; the callback must not call back
// into the session.
func (s *Server) bindStateEvents(c *Client, sess *dialog.Session) {
	sess.OnState = func(from, to dialog.TurnState) {
		s.sendEvent(c, "session.state", StatePayload{
			SessionID: sess.ID,
			From:      from.String(),
			To:        to.String(),
		})
	}
}

// emitSpeak sends each spoken line as its own ordered speak event.
func (s *Server) emitSpeak(c *Client, sess *dialog.Session, lines []string) {
	voice := sess.Voice()
	for _, line := range lines {
		s.sendEvent(c, "speak", SpeakPayload{
			SessionID: sess.ID,
			Text:      line,
			Voice:     voice,
		})
	}
}

// sendEvent delivers one event frame with a server-wide sequence number.
func (s *Server) sendEvent(c *Client, event string, payload any) {
	err := c.SendEvent(event, payload, s.eventSeq.Add(1))
	if err != nil && !errors.Is(err, ErrClientClosed) {
		s.log.Warn().Err(err).Str("event", event).Str("connId", c.ConnID).Msg("event send failed")
	}
}

func (s *Server) lookupSession(connID string) *liveSession {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	return s.sessions[connID]
}

func (s *Server) detachSession(connID string) *liveSession {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	ls := s.sessions[connID]
	delete(s.sessions, connID)
	return ls
}

func (s *Server) touchSession(connID string) {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	if ls := s.sessions[connID]; ls != nil {
		ls.lastActive = time.Now()
	}
}

// endClientSession ends the session attached to a connection, if any.
// Called when the connection drops.
func (s *Server) endClientSession(ctx context.Context, client *Client, reason string) {
	if s.engine == nil {
		return
	}
	ls := s.detachSession(client.ConnID)
	if ls == nil {
		return
	}
	s.log.Info().
		Str("connId", client.ConnID).
		Str("session", ls.sess.ID).
		Str("reason", reason).
		Msg("ending session")
	s.engine.EndSession(ctx, ls.sess)
}

// sweepIdleSessions ends sessions quiet for longer than the configured idle
// limit and tells their clients. Runs until the context is cancelled.
func (s *Server) sweepIdleSessions(ctx context.Context) {
	if s.engine == nil || s.cfg.Session.IdleMinutes <= 0 {
		return
	}
	limit := time.Duration(s.cfg.Session.IdleMinutes) * time.Minute

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-limit)
		var idle []*liveSession
		s.sessMu.Lock()
		for connID, ls := range s.sessions {
			if ls.lastActive.Before(cutoff) {
				idle = append(idle, ls)
				delete(s.sessions, connID)
			}
		}
		s.sessMu.Unlock()

		for _, ls := range idle {
			s.log.Info().Str("session", ls.sess.ID).Msg("session idle limit reached")
			s.engine.EndSession(ctx, ls.sess)
			s.sendEvent(ls.client, "session.ended", SessionEndedPayload{
				SessionID: ls.sess.ID,
				Reason:    "idle",
			})
		}
	}
}
