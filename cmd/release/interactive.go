package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/corebridge/buildkit"
	"github.com/wippyai/corebridge/release"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	compiledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type releaseModel struct {
	err     error
	report  *release.Report
	cfg     release.Config
	spinner spinner.Model
	done    bool
}

type reportMsg struct {
	err    error
	report *release.Report
}

func newReleaseModel(cfg release.Config) *releaseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &releaseModel{cfg: cfg, spinner: s}
}

func (m *releaseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runRelease)
}

func (m *releaseModel) runRelease() tea.Msg {
	report, err := release.NewPipeline(m.cfg).Run(context.Background())
	return reportMsg{report: report, err: err}
}

func (m *releaseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}

	case reportMsg:
		m.report = msg.report
		m.err = msg.err
		m.done = true

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *releaseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("corebridge release"))
	b.WriteString("\n\n")

	if !m.done {
		b.WriteString(m.spinner.View())
		b.WriteString(" building artifacts...\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	if m.report != nil {
		fmt.Fprintf(&b, "Version %s (%s)\n\n", m.report.Version, m.report.Status)

		artifacts := append([]*buildkit.Artifact(nil), m.report.Artifacts...)
		sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Key() < artifacts[j].Key() })
		for _, a := range artifacts {
			state := a.State.String()
			switch a.State {
			case buildkit.StateCompiled:
				state = compiledStyle.Render(state)
			case buildkit.StateFailed:
				state = failedStyle.Render(state)
			}
			fmt.Fprintf(&b, "  %-40s %s\n", a.Key(), state)
			if a.Err != nil {
				fmt.Fprintf(&b, "    %s\n", failedStyle.Render(a.Err.Error()))
			}
		}

		if len(m.report.Packages) > 0 {
			b.WriteString("\n")
			for _, pkg := range m.report.Packages {
				var descs []string
				for desc := range pkg.Archives {
					descs = append(descs, desc)
				}
				sort.Strings(descs)
				for _, desc := range descs {
					fmt.Fprintf(&b, "  %s %s %s\n",
						pkg.Ecosystem, dimStyle.Render(desc), pkg.Archives[desc])
				}
			}
		}
		if m.report.Sync != nil {
			fmt.Fprintf(&b, "\n  manifests rewritten: %d\n", len(m.report.Sync.Rewritten))
		}
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(failedStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter/q quit"))
	return b.String()
}

func runInteractive(cfg release.Config) error {
	p := tea.NewProgram(newReleaseModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
