package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/voicedesk/voicedesk/internal/catalog"
	"github.com/voicedesk/voicedesk/internal/dialog"
)

// Role ids for the tutor's mode table.
const (
	roleRouter    dialog.RoleID = "router"
	roleLearn     dialog.RoleID = "learn"
	roleQuiz      dialog.RoleID = "quiz"
	roleTeachBack dialog.RoleID = "teach_back"
)

const tutorInstructions = "You are an Active Recall Coach. You operate in modes: 'learn', 'quiz', 'teach_back'. " +
	"Use the provided tools to select concept, explain summaries, ask questions, and prompt teach-back. " +
	"Be concise, friendly, and avoid complex formatting or emojis. Users may ask to switch modes at any time."

const routerInstructions = "You are the Teach-the-Tutor router. Greet the user and ask only for their preferred mode " +
	"('learn', 'quiz', 'teach_back'). Do not ask for a topic. " +
	"When the user says 'learn', call the tool 'start_tutoring' with mode='learn'. " +
	"Similarly for 'quiz' or 'teach back'. Support switching any time."

// tutorState tracks the active mode, the concept under discussion, and the
// mastery scores recorded so far. All four roles share one instance, so a
// concept selected in quiz mode is still current after a switch to learn.
type tutorState struct {
	mode      string
	conceptID string
	mastery   map[string]int
}

// concept resolves the state's concept id against the catalog, writing the
// resolved id back so later tools see a valid reference.
func (st *tutorState) concept(cat *catalog.Catalog) catalog.Concept {
	if st.conceptID == "" {
		st.conceptID = catalog.DefaultConcept.ID
	}
	con := cat.ConceptOrDefault(st.conceptID)
	st.conceptID = con.ID
	return con
}

// normalizeMode maps a spoken mode name onto the closed role set. Spaces
// and hyphens become underscores; unknown modes fall back to learn.
func normalizeMode(mode string) dialog.RoleID {
	m := strings.ToLower(strings.TrimSpace(mode))
	m = strings.ReplaceAll(m, " ", "_")
	m = strings.ReplaceAll(m, "-", "_")
	switch dialog.RoleID(m) {
	case roleLearn, roleQuiz, roleTeachBack:
		return dialog.RoleID(m)
	default:
		return roleLearn
	}
}

// optionLine renders one raw quiz option as a spoken line. Catalog data
// writes options as "A) text" or "Option A text"; both become
// "Option A: text". Anything else is spoken as-is.
func optionLine(opt string) string {
	s := strings.TrimSpace(opt)
	if len(s) >= 2 && s[1] == ')' {
		label, text := s[:1], strings.TrimSpace(strings.TrimLeft(s[2:], ") "))
		if text == "" {
			return "Option " + label
		}
		return "Option " + label + ": " + text
	}
	if len(s) > 7 && strings.EqualFold(s[:7], "option ") {
		rest := strings.TrimSpace(s[7:])
		if rest != "" {
			label, text := rest[:1], strings.TrimSpace(rest[1:])
			if text == "" {
				return "Option " + label
			}
			return "Option " + label + ": " + text
		}
	}
	return s
}

// quizLines spells out the current question and its options, one spoken
// line per option.
func quizLines(cat *catalog.Catalog, st *tutorState) []string {
	con := st.concept(cat)
	lines := []string{fmt.Sprintf("Question: %s", con.SampleQuestion), "Choose one."}
	for _, opt := range cat.QuizOptions(con.ID) {
		lines = append(lines, optionLine(opt))
	}
	return lines
}

// Tutor builds the Active Recall Coach: a router plus three tutoring modes
// sharing one state, swapped by handoff so history and the selected concept
// carry across modes.
func Tutor(deps Deps) dialog.Bundle {
	cat := deps.Catalog
	st := &tutorState{mode: string(roleLearn), mastery: map[string]int{}}

	selectConcept := dialog.Tool{
		Name:        "select_concept",
		Description: "Select the concept to work on, by id or title.",
		Args:        []dialog.ArgSpec{{Name: "concept_id", Type: dialog.ArgString, Description: "Concept id or spoken title.", Required: true}},
		Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
			if con, ok := cat.MatchConcept(args.String("concept_id")); ok {
				st.conceptID = con.ID
			}
			con := st.concept(cat)
			return dialog.Result{Say: fmt.Sprintf("Selected concept: %s.", con.Title)}, nil
		},
	}

	switchMode := dialog.Tool{
		Name:        "switch_mode",
		Description: "Switch to learn, quiz, or teach_back mode.",
		Args:        []dialog.ArgSpec{{Name: "mode", Type: dialog.ArgString, Description: "The target mode.", Required: true}},
		Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
			target := normalizeMode(args.String("mode"))
			st.mode = string(target)
			return dialog.Result{Handoff: target}, nil
		},
	}

	startTutoring := dialog.Tool{
		Name:        "start_tutoring",
		Description: "Start tutoring in the requested mode, optionally with a concept.",
		Args: []dialog.ArgSpec{
			{Name: "mode", Type: dialog.ArgString, Description: "learn, quiz, or teach_back.", Required: true},
			{Name: "concept_id", Type: dialog.ArgString, Description: "Concept id or title to begin with."},
		},
		Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
			target := normalizeMode(args.String("mode"))
			con, matched := cat.MatchConcept(args.String("concept_id"))
			switch {
			case matched:
				st.conceptID = con.ID
			case target == roleLearn:
				st.conceptID = catalog.DefaultConcept.ID
			}
			st.concept(cat)
			st.mode = string(target)
			return dialog.Result{Handoff: target}, nil
		},
	}

	explain := dialog.Tool{
		Name:        "explain",
		Description: "Explain the current concept's summary.",
		Run: func(_ context.Context, _ dialog.Args) (dialog.Result, error) {
			con := st.concept(cat)
			return dialog.Result{Say: fmt.Sprintf("%s: %s", con.Title, con.Summary)}, nil
		},
	}

	continueLearning := dialog.Tool{
		Name:        "continue_learning",
		Description: "Move on to another concept and explain it.",
		Run: func(_ context.Context, _ dialog.Args) (dialog.Result, error) {
			next := cat.RandomConcept(st.conceptID)
			st.conceptID = next.ID
			return dialog.Result{Say: fmt.Sprintf("%s: %s", next.Title, next.Summary)}, nil
		},
	}

	ask := dialog.Tool{
		Name:        "ask",
		Description: "Ask the current concept's quiz question with options.",
		Run: func(_ context.Context, _ dialog.Args) (dialog.Result, error) {
			lines := append(quizLines(cat, st), "Please choose A, B, or C.")
			return dialog.Result{Say: strings.Join(lines, "\n")}, nil
		},
	}

	promptTeachBack := dialog.Tool{
		Name:        "prompt_teach_back",
		Description: "Prompt the user to explain the current concept in their own words.",
		Run: func(_ context.Context, _ dialog.Args) (dialog.Result, error) {
			con := st.concept(cat)
			return dialog.Result{Say: fmt.Sprintf("Teach back: Please explain '%s' in your own words, covering its purpose and a simple example.", con.Title)}, nil
		},
	}

	recordMastery := dialog.Tool{
		Name:        "record_mastery",
		Description: "Record how well the user explained the current concept, from 0 to 5.",
		Args:        []dialog.ArgSpec{{Name: "score", Type: dialog.ArgInt, Description: "Mastery score between 0 and 5.", Required: true}},
		Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
			score := args.Int("score")
			if score < 0 || score > 5 {
				return dialog.Result{}, &dialog.ValidationError{Message: "Mastery is scored from 0 to 5."}
			}
			con := st.concept(cat)
			st.mastery[con.ID] = score
			return dialog.Result{Say: fmt.Sprintf("Noted. %s mastery is %d out of 5.", con.Title, score)}, nil
		},
	}

	roles := map[dialog.RoleID]*dialog.Role{
		roleRouter: {
			ID:           roleRouter,
			Instructions: routerInstructions,
			Tools:        dialog.MustToolSet(startTutoring),
			Voice:        "en-US-matthew",
			OnEnter: func(context.Context) []string {
				return []string{"Hi! I'm your Active Recall Coach. Which mode would you like: 'learn', 'quiz', or 'teach back'?"}
			},
		},
		roleLearn: {
			ID:           roleLearn,
			Instructions: tutorInstructions,
			Tools:        dialog.MustToolSet(selectConcept, switchMode, explain, continueLearning),
			Voice:        "en-US-matthew",
			OnEnter: func(context.Context) []string {
				con := st.concept(cat)
				return []string{
					fmt.Sprintf("Learn mode: %s.", con.Title),
					fmt.Sprintf("%s: %s", con.Title, con.Summary),
					"Say 'continue' to learn another topic.",
				}
			},
		},
		roleQuiz: {
			ID:           roleQuiz,
			Instructions: tutorInstructions,
			Tools:        dialog.MustToolSet(selectConcept, switchMode, ask),
			Voice:        "en-US-alicia",
			OnEnter: func(context.Context) []string {
				con := st.concept(cat)
				lines := []string{fmt.Sprintf("Quiz mode. I'll ask about '%s'. Say 'switch to learn' or 'switch to teach back' anytime.", con.Title)}
				return append(lines, quizLines(cat, st)...)
			},
		},
		roleTeachBack: {
			ID:           roleTeachBack,
			Instructions: tutorInstructions,
			Tools:        dialog.MustToolSet(selectConcept, switchMode, promptTeachBack, recordMastery),
			Voice:        "en-US-ken",
			OnEnter: func(context.Context) []string {
				con := st.concept(cat)
				return []string{fmt.Sprintf("Teach-back mode. Please explain '%s' in your own words. Say 'switch to learn' or 'switch to quiz' anytime.", con.Title)}
			},
		},
	}

	return dialog.Bundle{Assistant: "tutor", Start: roleRouter, Roles: roles}
}
