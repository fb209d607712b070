package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Seed returns the built-in demo catalog used by the seed command and the
// package tests.
func Seed() *Catalog {
	return &Catalog{
		FAQ:      seedFAQ,
		Concepts: seedConcepts,
		Products: seedProducts,
		Recipes:  seedRecipes,
	}
}

// WriteSeed writes the demo catalog files into dir, creating it if needed.
// Existing files are left alone so repeated seeding never clobbers edits.
func WriteSeed(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	files := map[string]any{
		FAQFile:      seedFAQ,
		ConceptsFile: seedConcepts,
		ProductsFile: seedProducts,
		RecipesFile:  seedRecipes,
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

var seedFAQ = []FAQEntry{
	{
		Question: "What is VoiceDesk?",
		Answer:   "VoiceDesk is a voice assistant platform that lets businesses run ordering, support, and outreach conversations over phone and web calls.",
		Tags:     []string{"product", "platform", "voicedesk"},
	},
	{
		Question: "What does VoiceDesk cost?",
		Answer:   "Plans start at $49 per month for a single assistant, with usage-based pricing for calls beyond the included minutes. Annual billing gets two months free.",
		Tags:     []string{"pricing", "plans", "cost", "billing"},
	},
	{
		Question: "Which channels are supported?",
		Answer:   "VoiceDesk assistants answer phone calls, web calls, and embedded widgets. WhatsApp voice notes are in early access.",
		Tags:     []string{"channels", "phone", "web", "whatsapp"},
	},
	{
		Question: "What integrations are available?",
		Answer:   "Out of the box: webhooks, Slack notifications, Google Sheets export, and a REST API. CRM connectors for HubSpot and Salesforce are on the roadmap.",
		Tags:     []string{"integrations", "api", "crm", "webhooks"},
	},
	{
		Question: "Which languages can assistants speak?",
		Answer:   "English, Hindi, Spanish, German, and French today, with more voices added monthly.",
		Tags:     []string{"languages", "voices", "localization"},
	},
	{
		Question: "Is there a free trial?",
		Answer:   "Yes, every workspace starts with a 14 day trial including 100 call minutes. No card required.",
		Tags:     []string{"trial", "free", "signup"},
	},
	{
		Question: "How is call data secured?",
		Answer:   "Calls are encrypted in transit, recordings are stored encrypted at rest, and workspaces can set retention windows down to 24 hours.",
		Tags:     []string{"security", "privacy", "encryption", "retention"},
	},
	{
		Question: "What support do you offer?",
		Answer:   "Email support on all plans, with a shared Slack channel and a dedicated engineer on the business tier.",
		Tags:     []string{"support", "help", "sla"},
	},
}

var seedConcepts = []Concept{
	{
		ID:             "variables",
		Title:          "Variables",
		Summary:        "Variables store values so you can reuse them later.",
		SampleQuestion: "What is a variable and why is it useful?",
	},
	{
		ID:             "loops",
		Title:          "Loops",
		Summary:        "Loops repeat a block of steps until a condition says stop.",
		SampleQuestion: "When would you reach for a loop instead of copying code?",
	},
	{
		ID:             "functions",
		Title:          "Functions",
		Summary:        "Functions bundle steps under a name so logic can be called from anywhere.",
		SampleQuestion: "What does a function let you avoid repeating?",
		Options: []string{
			"Option A A reusable named block of steps",
			"Option B A place to store a single value",
			"Option C A way to end the program",
		},
	},
	{
		ID:             "conditionals",
		Title:          "Conditionals",
		Summary:        "Conditionals choose between branches based on whether a test is true.",
		SampleQuestion: "How does a program decide between two paths?",
		Options: []string{
			"Option A A branch chosen by a true or false test",
			"Option B A loop that never ends",
			"Option C A list of stored values",
		},
	},
	{
		ID:             "recursion",
		Title:          "Recursion",
		Summary:        "Recursion solves a problem by having a function call itself on a smaller piece.",
		SampleQuestion: "What two parts does every recursive function need?",
		Options: []string{
			"Option A A base case and a smaller self-call",
			"Option B Two loops nested together",
			"Option C A global counter variable",
		},
	},
}

var seedProducts = []Product{
	{Name: "Tea Leaves", Price: 120, Category: "Beverages", Tags: []string{"vegan"}},
	{Name: "Milk", Price: 30, Category: "Dairy", Tags: []string{"vegetarian"}},
	{Name: "Sugar", Price: 45, Category: "Staples", Tags: []string{"vegan"}},
	{Name: "Cardamom Pods", Price: 95, Category: "Spices", Tags: []string{"vegan", "gluten-free"}},
	{Name: "Toor Dal", Price: 140, Category: "Staples", Tags: []string{"vegan", "gluten-free"}},
	{Name: "Turmeric Powder", Price: 60, Category: "Spices", Tags: []string{"vegan", "gluten-free"}},
	{Name: "Cumin Seeds", Price: 70, Category: "Spices", Tags: []string{"vegan"}},
	{Name: "Ghee", Price: 550, Category: "Dairy", Tags: []string{"vegetarian", "gluten-free"}},
	{Name: "Paneer", Price: 90, Category: "Dairy", Tags: []string{"vegetarian"}},
	{Name: "Tomato Puree", Price: 40, Category: "Staples", Tags: []string{"vegan"}},
	{Name: "Onion", Price: 35, Category: "Produce", Tags: []string{"vegan", "gluten-free"}},
	{Name: "Garam Masala", Price: 85, Category: "Spices", Tags: []string{"vegan"}},
	{Name: "Ginger Garlic Paste", Price: 55, Category: "Staples", Tags: []string{"vegan"}},
	{Name: "Basmati Rice", Price: 180, Category: "Staples", Tags: []string{"vegan", "gluten-free"}},
	{Name: "Biryani Masala", Price: 75, Category: "Spices", Tags: []string{"spicy"}},
	{Name: "Mixed Vegetables", Price: 65, Category: "Produce", Tags: []string{"vegan"}},
	{Name: "Atta (Wheat Flour)", Price: 220, Category: "Staples", Tags: []string{"vegan"}},
	{Name: "Poha (Flattened Rice)", Price: 50, Category: "Staples", Tags: []string{"vegan", "gluten-free"}},
	{Name: "Peanuts", Price: 110, Category: "Snacks", Tags: []string{"vegan"}},
	{Name: "Mustard Seeds", Price: 40, Category: "Spices", Tags: []string{"vegan"}},
	{Name: "Green Chilies", Price: 25, Category: "Produce", Tags: []string{"vegan", "spicy"}},
	{Name: "Veg Biryani", Price: 150, Category: "Prepared Food", Tags: []string{"vegetarian", "spicy"}},
	{Name: "Masala Dosa", Price: 120, Category: "Prepared Food", Tags: []string{"vegetarian"}},
	{Name: "Samosa", Price: 20, Category: "Snacks", Tags: []string{"vegetarian", "spicy"}},
}

var seedRecipes = map[string][]string{
	"masala chai":  {"Tea Leaves", "Milk", "Sugar", "Cardamom Pods"},
	"dal":          {"Toor Dal", "Turmeric Powder", "Cumin Seeds", "Ghee"},
	"paneer curry": {"Paneer", "Tomato Puree", "Onion", "Garam Masala", "Ginger Garlic Paste"},
	"biryani":      {"Basmati Rice", "Biryani Masala", "Mixed Vegetables"},
	"roti":         {"Atta (Wheat Flour)", "Ghee"},
	"poha":         {"Poha (Flattened Rice)", "Peanuts", "Mustard Seeds", "Green Chilies", "Onion"},
}
