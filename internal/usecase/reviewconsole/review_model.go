package reviewconsole

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/usecase/decision"
	"scanrecon/internal/usecase/review"
)

const maxShownProposals = 4
const maxAuditLines = 8

type ReviewOptions struct {
	CampaignID      uint64
	Operator        string
	SKUFilter       string
	OnlyDiffs       bool
	RefreshInterval time.Duration
}

type reviewModel struct {
	ctx             context.Context
	reviews         *review.Service
	decisions       *decision.Service
	campaignID      uint64
	operator        string
	skuFilter       string
	onlyDiffs       bool
	refreshInterval time.Duration

	items         []review.Item
	selectedIndex int
	status        string
	auditLogs     []string
}

type itemsLoadedMsg struct {
	items []review.Item
	err   error
}

type tickMsg struct{}

type actionDoneMsg struct {
	action string
	sku    string
	result string
	err    error
}

func NewReviewModel(ctx context.Context, reviews *review.Service, decisions *decision.Service, options ReviewOptions) tea.Model {
	operator := strings.TrimSpace(options.Operator)
	if operator == "" {
		operator = "admin"
	}
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &reviewModel{
		ctx:             ctx,
		reviews:         reviews,
		decisions:       decisions,
		campaignID:      options.CampaignID,
		operator:        operator,
		skuFilter:       strings.TrimSpace(options.SKUFilter),
		onlyDiffs:       options.OnlyDiffs,
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *reviewModel) Init() tea.Cmd {
	return tea.Batch(m.loadItemsCmd(), m.tickCmd())
}

func (m *reviewModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadItemsCmd(), m.tickCmd())
	case itemsLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.items = msg.items
		if len(m.items) == 0 {
			m.selectedIndex = 0
			m.status = "queue is empty"
			return m, nil
		}
		if m.selectedIndex < 0 {
			m.selectedIndex = 0
		}
		if m.selectedIndex >= len(m.items) {
			m.selectedIndex = len(m.items) - 1
		}
		m.status = fmt.Sprintf("refreshed, %d skus", len(m.items))
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
			m.appendAuditLog(msg.action, msg.sku, "failed", msg.err)
		} else {
			m.status = fmt.Sprintf("%s done: %s", msg.action, msg.result)
			m.appendAuditLog(msg.action, msg.sku, msg.result, nil)
		}
		return m, m.loadItemsCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadItemsCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.items)-1 {
				m.selectedIndex++
			}
			return m, nil
		case "a":
			return m, m.decideCmd(string(catalog.VerdictAccept), false)
		case "A":
			return m, m.decideCmd(string(catalog.VerdictAccept), true)
		case "r":
			return m, m.decideCmd(string(catalog.VerdictReject), false)
		case "d":
			m.onlyDiffs = !m.onlyDiffs
			m.status = fmt.Sprintf("only diffs: %t", m.onlyDiffs)
			return m, m.loadItemsCmd()
		}
	}
	return m, nil
}

func (m *reviewModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))
	consensusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Review Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"campaign=%s operator=%s filter=%s diffs=%t refresh=%s",
		campaignLabel(m.campaignID),
		m.operator,
		firstNonEmpty(m.skuFilter, "-"),
		m.onlyDiffs,
		m.refreshInterval,
	)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Queue"))
	builder.WriteString("\n")
	if len(m.items) == 0 {
		builder.WriteString(dimStyle.Render("- no skus"))
		builder.WriteString("\n\n")
	} else {
		for index, item := range m.items {
			marker := "  "
			line := fmt.Sprintf("%s votes=%d ratio=%.2f branches=%d", item.SKU, item.TotalVotes, item.Ratio, len(item.Branches))
			if item.HasConsensus {
				line += " consensus"
			}
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else if item.HasConsensus {
				builder.WriteString(marker + consensusStyle.Render(line))
			} else {
				builder.WriteString(marker + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Detail"))
	builder.WriteString("\n")
	if selected, ok := m.selectedItem(); ok {
		builder.WriteString(fmt.Sprintf("SKU: %s\n", selected.SKU))
		if selected.Baseline != nil {
			builder.WriteString(fmt.Sprintf("Baseline: %s (%s)\n", selected.Baseline.Signature(), firstNonEmpty(selected.Description, "-")))
		} else {
			builder.WriteString("Baseline: not in master\n")
		}
		builder.WriteString(fmt.Sprintf("LastSeen: %s\n", firstNonEmpty(selected.LastSeen, "-")))
		builder.WriteString("\nProposals:\n")
		shown := selected.Proposals
		if len(shown) > maxShownProposals {
			shown = shown[:maxShownProposals]
		}
		for _, proposal := range shown {
			line := fmt.Sprintf("- %s votes=%d share=%.2f users=%d", proposal.Codes.Signature(), proposal.Count, proposal.Share, len(proposal.Users))
			if proposal.Decision != nil {
				line += " decided:" + proposal.Decision.Status
			}
			builder.WriteString(line)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	} else {
		builder.WriteString(dimStyle.Render("- no selection"))
		builder.WriteString("\n\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Actions"))
	builder.WriteString("\n")
	builder.WriteString("- a accept top proposal (pending)\n")
	builder.WriteString("- A accept top proposal and apply\n")
	builder.WriteString("- r reject top proposal\n")
	builder.WriteString("- d toggle only-diffs\n")
	builder.WriteString("\n")

	builder.WriteString(sectionStyle.Render("Audit Log"))
	builder.WriteString("\n")
	if len(m.auditLogs) == 0 {
		builder.WriteString(dimStyle.Render("- no actions"))
		builder.WriteString("\n\n")
	} else {
		for _, line := range m.auditLogs {
			builder.WriteString("- " + line)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  g refresh  a/A/r decide  d diffs  q quit"))
	return builder.String()
}

func (m *reviewModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *reviewModel) loadItemsCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.reviews.ListReview(m.ctx, review.ListInput{
			CampaignID: m.campaignID,
			SKUFilter:  m.skuFilter,
			OnlyDiffs:  m.onlyDiffs,
		})
		if err != nil {
			return itemsLoadedMsg{err: err}
		}
		return itemsLoadedMsg{items: items}
	}
}

func (m *reviewModel) decideCmd(verdict string, applyNow bool) tea.Cmd {
	selected, ok := m.selectedItem()
	if !ok {
		m.status = "no sku selected"
		return nil
	}
	if len(selected.Proposals) == 0 {
		m.status = "selected sku has no proposals"
		return nil
	}

	top := selected.Proposals[0]
	action := verdict
	if applyNow {
		action = verdict + "+apply"
	}
	sku := selected.SKU
	campaignID := selected.CampaignID
	m.status = "running " + action

	return func() tea.Msg {
		created, err := m.decisions.Decide(m.ctx, decision.DecideInput{
			CampaignID: campaignID,
			RawSKU:     sku,
			Proposal:   top.Codes,
			Verdict:    verdict,
			DecidedBy:  m.operator,
			ApplyNow:   applyNow,
			Notes:      "console decision",
		})
		if err != nil {
			return actionDoneMsg{action: action, sku: sku, err: err}
		}
		return actionDoneMsg{action: action, sku: sku, result: created.Status}
	}
}

func (m *reviewModel) selectedItem() (review.Item, bool) {
	if len(m.items) == 0 {
		return review.Item{}, false
	}
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.items) {
		return review.Item{}, false
	}
	return m.items[m.selectedIndex], true
}

func (m *reviewModel) appendAuditLog(action string, sku string, result string, opErr error) {
	outcome := strings.TrimSpace(result)
	if opErr != nil {
		outcome = "error: " + opErr.Error()
	}
	if outcome == "" {
		outcome = "ok"
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	line := fmt.Sprintf("%s operator=%s sku=%s action=%s result=%s", timestamp, m.operator, sku, action, outcome)
	m.auditLogs = append([]string{line}, m.auditLogs...)
	if len(m.auditLogs) > maxAuditLines {
		m.auditLogs = m.auditLogs[:maxAuditLines]
	}

	logging.Info(m.ctx, "review console action",
		slog.String("time", timestamp),
		slog.String("operator", m.operator),
		slog.String("sku", sku),
		slog.String("action", action),
		slog.String("result", outcome),
	)
}

func campaignLabel(campaignID uint64) string {
	if campaignID == 0 {
		return "active"
	}
	return fmt.Sprintf("%d", campaignID)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized != "" {
			return normalized
		}
	}
	return ""
}
