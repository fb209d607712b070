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

const salesInstructions = "You are VoiceDesk's friendly Sales Development Representative. " +
	"Greet visitors warmly, ask what brought them here and what they're working on, " +
	"and keep the conversation focused on understanding their needs. " +
	"When asked about product, company, channels, integrations, or pricing, call the `answer_faq` tool with the user's question and answer only from the provided FAQ. " +
	"If information is not in the FAQ, say you don't have that detail and offer to connect sales. " +
	"Collect lead details naturally: name, company, email, role, use case, team size, and timeline. " +
	"Whenever the user provides a field, call `record_lead_field` with the field and value. " +
	"When the user indicates the conversation is done (phrases like 'that's all', 'I'm done', 'thanks'), call `complete_lead` to summarize and finalize. " +
	"Be concise, helpful, and refuse harmful or inappropriate requests. Do not claim to know personal information about the user."

// salesState wraps the lead being captured. The id is assigned on the first
// write and reused for every upsert after that, so one conversation updates
// one record.
type salesState struct {
	lead domain.Lead
}

// record stamps the lead for an upsert, assigning the id on first use.
func (s *salesState) record(status string) domain.Lead {
	if s.lead.ID == "" {
		s.lead.ID = uuid.New().String()
	}
	s.lead.Status = status
	s.lead.UpdatedAt = time.Now()
	return s.lead
}

// Sales builds the sales development representative: FAQ answers through
// the weighted scorer and incremental lead capture with id-keyed upserts.
func Sales(deps Deps) dialog.Bundle {
	st := &salesState{}

	tools := dialog.MustToolSet(
		dialog.Tool{
			Name:        "answer_faq",
			Description: "Answer a product question from the FAQ.",
			Args:        []dialog.ArgSpec{{Name: "query", Type: dialog.ArgString, Description: "The user's question.", Required: true}},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				if entry, ok := deps.Catalog.SearchFAQ(args.String("query")); ok {
					return dialog.Result{Say: entry.Answer}, nil
				}
				return dialog.Result{Say: "I don't have that detail in our FAQ. I can connect you to our sales team for specifics."}, nil
			},
		},
		dialog.Tool{
			Name:        "record_lead_field",
			Description: "Record one lead detail the user just shared.",
			Args: []dialog.ArgSpec{
				{Name: "field", Type: dialog.ArgString, Description: "One of: name, company, email, role, use case, team size, timeline.", Required: true},
				{Name: "value", Type: dialog.ArgString, Description: "The value the user gave.", Required: true},
			},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				field := strings.ToLower(strings.TrimSpace(args.String("field")))
				value := strings.TrimSpace(args.String("value"))
				switch field {
				case "name":
					st.lead.Name = value
				case "company":
					st.lead.Company = value
				case "email":
					st.lead.Email = value
				case "role":
					st.lead.Role = value
				case "use case", "use_case":
					st.lead.UseCase = value
				case "team size", "team_size":
					st.lead.TeamSize = value
				case "timeline":
					st.lead.Timeline = value
				default:
					return dialog.Result{}, &dialog.ValidationError{Message: "I can note name, company, email, role, use case, team size, or timeline."}
				}
				if err := deps.Leads.Upsert(st.record(domain.LeadInProgress)); err != nil {
					return dialog.Result{}, &dialog.PersistenceError{Message: "I couldn't note that down just now. Could you say it again in a moment?", Err: err}
				}
				return dialog.Result{Say: "Got it."}, nil
			},
		},
		dialog.Tool{
			Name:        "complete_lead",
			Description: "Finalize the lead and read back a summary.",
			Run: func(_ context.Context, _ dialog.Args) (dialog.Result, error) {
				if err := deps.Leads.Upsert(st.record(domain.LeadCompleted)); err != nil {
					return dialog.Result{}, &dialog.PersistenceError{Message: "I couldn't finalize that just now. One moment please.", Err: err}
				}
				name := fallback(st.lead.Name, "a prospective customer")
				company := fallback(st.lead.Company, "their company")
				useCase := fallback(st.lead.UseCase, "a potential use case")
				timeline := fallback(st.lead.Timeline, "an upcoming timeline")
				return dialog.Result{Say: fmt.Sprintf("Summary: %s from %s is interested in %s. Timeline: %s.", name, company, useCase, timeline)}, nil
			},
		},
	)

	return dialog.Bundle{
		Assistant: "sales",
		Start:     "sales",
		Roles: map[dialog.RoleID]*dialog.Role{
			"sales": {
				ID:           "sales",
				Instructions: salesInstructions,
				Tools:        tools,
				Voice:        "en-US-matthew",
			},
		},
	}
}

// fallback returns s, or the placeholder when s is empty.
func fallback(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
