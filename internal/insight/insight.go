// Package insight generates spending commentary for limit-breach alerts.
//
// The advisory is informational and best-effort: every generator returns a
// usable markdown string, falling back to a fixed message instead of
// surfacing upstream errors to the caller.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Vivekgpta/Tracker/internal/core"

	genlang "google.golang.org/api/generativelanguage/v1beta"
	goption "google.golang.org/api/option"
)

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-3-flash-preview"

	fallbackEmpty = "No insights available at this time."
	fallbackError = "Could not generate insights due to an error."

	// historyWindow limits how many recent expenses reach the prompt.
	historyWindow = 10
)

// Generator produces markdown commentary on a wallet's spending.
type Generator interface {
	GenerateInsight(ctx context.Context, wallet core.Wallet, history []core.Expense) string
}

// Static always returns the fixed fallback text. Used when no API key is
// configured, and as the degradation path in tests.
type Static struct{}

func (Static) GenerateInsight(ctx context.Context, wallet core.Wallet, history []core.Expense) string {
	return fallbackEmpty
}

// Gemini generates insights through the Generative Language API.
type Gemini struct {
	svc   *genlang.Service
	model string
}

// Ensure interface conformance
var (
	_ Generator = Static{}
	_ Generator = (*Gemini)(nil)
)

// New creates a Gemini-backed generator. An empty API key yields the static
// fallback generator instead of an error.
func New(ctx context.Context, apiKey, model string) (Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		slog.InfoContext(ctx, "No Gemini API key configured, insights will use static fallback")
		return Static{}, nil
	}
	if model == "" {
		model = DefaultModel
	}

	svc, err := genlang.NewService(ctx, goption.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("generative language service: %w", err)
	}

	return &Gemini{svc: svc, model: model}, nil
}

func (g *Gemini) GenerateInsight(ctx context.Context, wallet core.Wallet, history []core.Expense) string {
	resp, err := g.svc.Models.GenerateContent("models/"+g.model, &genlang.GenerateContentRequest{
		Contents: []*genlang.Content{{
			Role:  "user",
			Parts: []*genlang.Part{{Text: BuildPrompt(wallet, history)}},
		}},
	}).Context(ctx).Do()
	if err != nil {
		slog.ErrorContext(ctx, "Insight generation failed", "error", err, "wallet", wallet.Name, "model", g.model)
		return fallbackError
	}

	text := extractText(resp)
	if text == "" {
		return fallbackEmpty
	}
	return text
}

// BuildPrompt renders the advisory prompt from the wallet and its most
// recent expenses.
func BuildPrompt(wallet core.Wallet, history []core.Expense) string {
	var lines []string
	for _, e := range history {
		if e.WalletID != wallet.ID {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%s) - %s", e.Date.String(), e.Amount.String(), e.Category, e.Description))
		if len(lines) == historyWindow {
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The user has exceeded their monthly spending limit of %s for the wallet %q.\n", wallet.MonthlyLimit.String(), wallet.Name)
	fmt.Fprintf(&b, "Current balance: %s.\n\n", wallet.Balance.String())
	b.WriteString("Recent expenses:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nProvide a brief, helpful analysis of their spending patterns and 3 actionable tips to save money. ")
	b.WriteString("Keep the tone encouraging but firm. Format as markdown.")
	return b.String()
}

func extractText(resp *genlang.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var parts []string
		for _, p := range c.Content.Parts {
			if p != nil && p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "")
		}
	}
	return ""
}
