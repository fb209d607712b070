package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/voicedesk/voicedesk/internal/dialog"
	"github.com/voicedesk/voicedesk/internal/domain"
)

const wellnessBase = "You are a supportive, grounded Health & Wellness Voice Companion.\n" +
	"Conduct a short daily check-in.\n\n" +
	"Required steps:\n" +
	"1) Ask about mood and energy.\n" +
	"2) Ask for 1-3 practical objectives for today.\n" +
	"3) Offer small, realistic, non-medical suggestions.\n" +
	"4) Recap mood and objectives and confirm.\n" +
	"5) Call the `log_checkin` tool with mood, energy, objectives.\n\n" +
	"Guidelines:\n" +
	"- Be friendly, concise, and avoid medical claims.\n" +
	"- Suggestions should be small and actionable.\n" +
	"- No complex formatting or emojis.\n"

// wellnessInstructions appends at most one prior-entry reference so the
// companion can ask how today compares. Mood wins over energy.
func wellnessInstructions(deps Deps) string {
	last, ok := deps.Checkins.Last()
	if !ok {
		return wellnessBase
	}
	if last.Mood != "" {
		return wellnessBase + fmt.Sprintf("\nReference only one prior detail: Last mood was '%s'. Ask how it compares today.", last.Mood)
	}
	if last.Energy != "" {
		return wellnessBase + fmt.Sprintf("\nReference only one prior detail: Last energy was '%s'. Ask how it compares today.", last.Energy)
	}
	return wellnessBase
}

// Wellness builds the daily check-in companion. Instructions are rebuilt
// per session so each check-in can reference the previous one.
func Wellness(deps Deps) dialog.Bundle {
	tools := dialog.MustToolSet(dialog.Tool{
		Name:        "log_checkin",
		Description: "Persist a wellness check-in entry.",
		Args: []dialog.ArgSpec{
			{Name: "mood", Type: dialog.ArgString, Description: "How the user feels today.", Required: true},
			{Name: "energy", Type: dialog.ArgString, Description: "Today's energy level, if shared."},
			{Name: "objectives", Type: dialog.ArgString, Description: "One to three practical objectives for the day.", Required: true},
		},
		Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
			entry := domain.WellnessEntry{
				ID:         uuid.New().String(),
				Timestamp:  time.Now(),
				Mood:       args.String("mood"),
				Objectives: args.String("objectives"),
				Energy:     strings.TrimSpace(args.String("energy")),
			}
			if err := deps.Checkins.Upsert(entry); err != nil {
				return dialog.Result{}, &dialog.PersistenceError{Message: "Failed to log.", Err: err}
			}
			return dialog.Result{Say: "Check-in logged."}, nil
		},
	})

	return dialog.Bundle{
		Assistant: "wellness",
		Start:     "wellness",
		Roles: map[dialog.RoleID]*dialog.Role{
			"wellness": {
				ID:           "wellness",
				Instructions: wellnessInstructions(deps),
				Tools:        tools,
				Voice:        "en-US-molly",
			},
		},
	}
}
