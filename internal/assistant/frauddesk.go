package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/voicedesk/voicedesk/internal/dialog"
	"github.com/voicedesk/voicedesk/internal/domain"
	"github.com/voicedesk/voicedesk/internal/match"
)

const frauddeskInstructions = "You are a calm, professional fraud detection representative named Alex for Easy Bank. " +
	"At the start of the call, clearly introduce Easy Bank and yourself, explain you are contacting the user about a suspicious card transaction, and ask for their username to locate the case. " +
	"After the user provides a username, call the `load_fraud_case` tool with it. If no case is found, politely explain and ask for a different username or end the call. " +
	"Use only non-sensitive verification. Call `get_security_question` to retrieve the security question from the loaded case and ask it verbatim. Do not ask for full card numbers, PINs, passwords, or credentials. When the user answers, call `verify_answer` with the user's answer. If verification fails, apologize, say you cannot proceed, call `finalize_verification_failed`, and end the call. " +
	"If verification passes, use only database values to describe the transaction by calling `read_transaction_details`: include merchant, location, timestamp, amount, and only the masked card's last four digits. Then ask if they made this transaction (yes or no). Based on the answer, call `finalize_case` with true for yes or false for no. " +
	"When finalizing, the status must be one of confirmed_safe or confirmed_fraud, with a concise outcome note. End the call by confirming the action taken. " +
	"Be concise, reassuring, and refuse harmful or inappropriate requests. Do not claim to know personal information about the user beyond what is in the case data."

// verifyStage tracks how far the security check has progressed. The two
// outcome stages are terminal: a failed check cannot be retried within the
// session.
type verifyStage int

const (
	stageNoCase verifyStage = iota
	stageCaseLoaded
	stageVerified
	stageVerifyFailed
)

// fraudState is one call's view of the verification sub-flow.
type fraudState struct {
	username    string
	current     *domain.FraudCase
	stage       verifyStage
	finalStatus string
}

// FraudDesk builds the suspicious-transaction review assistant. Its tools
// enforce the verification sub-flow: a case must be loaded before the
// security check, and transaction details or outcomes only unlock once the
// check passes.
func FraudDesk(deps Deps) dialog.Bundle {
	st := &fraudState{}

	// finalize writes a terminal status and note to the case row. Repeat
	// calls overwrite the same row.
	finalize := func(status, note string) (dialog.Result, error) {
		if err := deps.Cases.UpdateStatus(st.current.ID, status, note); err != nil {
			return dialog.Result{}, &dialog.PersistenceError{Message: "I couldn't update the case just now. One moment please.", Err: err}
		}
		st.current.Status = status
		st.current.OutcomeNote = note
		st.finalStatus = status
		return dialog.Result{Say: fmt.Sprintf("Status updated: %s.", status)}, nil
	}

	tools := dialog.MustToolSet(
		dialog.Tool{
			Name:        "load_fraud_case",
			Description: "Load the latest fraud case for a username.",
			Args:        []dialog.ArgSpec{{Name: "username", Type: dialog.ArgString, Description: "The username to look up.", Required: true}},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				if st.stage != stageNoCase {
					return dialog.Result{}, &dialog.ValidationError{Message: "A case is already loaded for this call."}
				}
				st.username = strings.TrimSpace(args.String("username"))
				c, err := deps.Cases.Latest(st.username)
				if err != nil {
					return dialog.Result{}, &dialog.PersistenceError{Message: "I couldn't look that up just now. One moment please.", Err: err}
				}
				if c == nil {
					return dialog.Result{}, &dialog.NotFoundError{Message: "No fraud case found for that username."}
				}
				st.current = c
				st.stage = stageCaseLoaded
				return dialog.Result{Say: "I've found your case. Before we go further, I need to verify your identity."}, nil
			},
		},
		dialog.Tool{
			Name:        "get_security_question",
			Description: "Read the loaded case's security question.",
			Run: func(_ context.Context, _ dialog.Args) (dialog.Result, error) {
				if st.current == nil {
					return dialog.Result{}, &dialog.ValidationError{Message: "No case loaded."}
				}
				q := strings.TrimSpace(st.current.SecurityQuestion)
				if q == "" {
					return dialog.Result{}, &dialog.NotFoundError{Message: "No security question available."}
				}
				return dialog.Result{Say: q}, nil
			},
		},
		dialog.Tool{
			Name:        "verify_answer",
			Description: "Check the user's answer to the security question.",
			Args:        []dialog.ArgSpec{{Name: "answer", Type: dialog.ArgString, Description: "The user's answer.", Required: true}},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				switch st.stage {
				case stageNoCase:
					return dialog.Result{}, &dialog.ValidationError{Message: "No case loaded."}
				case stageVerified:
					return dialog.Result{}, &dialog.ValidationError{Message: "Verification already passed."}
				case stageVerifyFailed:
					return dialog.Result{}, &dialog.ValidationError{Message: "Verification already failed, so I can't continue with this case."}
				}
				if match.SecretMatches(args.String("answer"), st.current.SecurityAnswer) {
					st.stage = stageVerified
					return dialog.Result{Say: "Verification passed."}, nil
				}
				st.stage = stageVerifyFailed
				return dialog.Result{Say: "Verification failed."}, nil
			},
		},
		dialog.Tool{
			Name:        "read_transaction_details",
			Description: "Describe the suspicious transaction from the case record.",
			Run: func(_ context.Context, _ dialog.Args) (dialog.Result, error) {
				if st.current == nil {
					return dialog.Result{}, &dialog.ValidationError{Message: "No case loaded."}
				}
				if st.stage != stageVerified {
					return dialog.Result{}, &dialog.ValidationError{Message: "Transaction details are not available until verification passes."}
				}
				c := st.current
				say := fmt.Sprintf("Suspicious transaction: %s at %s around %s for $%.2f on card ending %s.",
					c.Merchant, c.Location, c.Timestamp, c.Amount, c.LastFour())
				return dialog.Result{Say: say}, nil
			},
		},
		dialog.Tool{
			Name:        "finalize_case",
			Description: "Record whether the user confirmed the transaction as legitimate.",
			Args:        []dialog.ArgSpec{{Name: "is_legit", Type: dialog.ArgBool, Description: "True when the user made the transaction.", Required: true}},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				if st.current == nil {
					return dialog.Result{}, &dialog.ValidationError{Message: "No case loaded."}
				}
				if st.stage != stageVerified {
					return dialog.Result{}, &dialog.ValidationError{Message: "I can only record an outcome after verification passes."}
				}
				status, note := domain.CaseConfirmedFraud, "Customer denied transaction; card blocked and dispute initiated."
				if args.Bool("is_legit") {
					status, note = domain.CaseConfirmedSafe, "Customer confirmed transaction as legitimate."
				}
				return finalize(status, note)
			},
		},
		dialog.Tool{
			Name:        "finalize_verification_failed",
			Description: "Close the case after a failed security check.",
			Run: func(_ context.Context, _ dialog.Args) (dialog.Result, error) {
				if st.current == nil {
					return dialog.Result{}, &dialog.ValidationError{Message: "No case loaded."}
				}
				switch st.stage {
				case stageVerified:
					return dialog.Result{}, &dialog.ValidationError{Message: "Verification already passed."}
				case stageCaseLoaded:
					return dialog.Result{}, &dialog.ValidationError{Message: "Verification hasn't failed on this case."}
				}
				return finalize(domain.CaseVerificationFailed, "Verification failed; unable to proceed.")
			},
		},
	)

	return dialog.Bundle{
		Assistant: "frauddesk",
		Start:     "frauddesk",
		Roles: map[dialog.RoleID]*dialog.Role{
			"frauddesk": {
				ID:           "frauddesk",
				Instructions: frauddeskInstructions,
				Tools:        tools,
				Voice:        "en-IN-Isha",
			},
		},
	}
}
