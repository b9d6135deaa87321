/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/gatekeeper/pkg/models"
)

// progressStates are the non-terminal steps shown as a checklist.
var progressStates = []models.GateState{ //nolint:gochecknoglobals // fixed display order
	models.GateCheckingNetwork,
	models.GateTriggering,
	models.GateWaitingForRelayClose,
}

type gateUpdateMsg models.GateUpdate

type streamClosedMsg struct{}

type triggerStartedMsg struct {
	updates <-chan models.GateUpdate
	err     error
}

type triggerModel struct {
	ctx      context.Context
	trigger  Triggerer
	spinner  spinner.Model
	updates  <-chan models.GateUpdate
	seen     map[models.GateState]bool
	current  models.GateState
	endpoint *models.DeviceEndpoint
	final    *models.GateUpdate
	err      error
	running  bool
	styles   tuiStyles
}

func newTriggerModel(ctx context.Context, t Triggerer) *triggerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaPink))

	return &triggerModel{
		ctx:     ctx,
		trigger: t,
		spinner: sp,
		seen:    make(map[models.GateState]bool),
		styles:  newTUIStyles(),
	}
}

func (m *triggerModel) Init() tea.Cmd {
	m.running = true

	return tea.Batch(m.spinner.Tick, m.start())
}

func (m *triggerModel) start() tea.Cmd {
	return func() tea.Msg {
		updates, err := m.trigger.Trigger(m.ctx)

		return triggerStartedMsg{updates: updates, err: err}
	}
}

func waitForUpdate(updates <-chan models.GateUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return streamClosedMsg{}
		}

		return gateUpdateMsg(update)
	}
}

func (m *triggerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case triggerStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.running = false

			return m, nil
		}

		m.updates = msg.updates

		return m, waitForUpdate(m.updates)
	case gateUpdateMsg:
		update := models.GateUpdate(msg)
		m.current = update.State
		m.seen[update.State] = true

		if update.Endpoint != nil {
			m.endpoint = update.Endpoint
		}

		if update.Final {
			m.final = &update
		}

		return m, waitForUpdate(m.updates)
	case streamClosedMsg:
		m.running = false
		m.updates = nil

		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *triggerModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case "enter", "r":
		if m.running {
			return m, nil
		}

		m.reset()
		m.running = true

		return m, tea.Batch(m.spinner.Tick, m.start())
	}

	return m, nil
}

func (m *triggerModel) reset() {
	m.seen = make(map[models.GateState]bool)
	m.current = ""
	m.endpoint = nil
	m.final = nil
	m.err = nil
}

// succeeded reports whether the last session ended with the relay released.
func (m *triggerModel) succeeded() bool {
	return m.final != nil && m.final.State == models.GateReady
}

func (m *triggerModel) View() string {
	var content strings.Builder

	content.WriteString(m.styles.title.Render("Gatekeeper: Gate Trigger") + "\n\n")

	if m.err != nil {
		content.WriteString(m.styles.error.Render("Error: "+m.err.Error()) + "\n\n")
		content.WriteString(m.styles.help.Render("Enter to retry • q to quit"))

		return m.styles.app.Render(content.String())
	}

	for _, state := range progressStates {
		content.WriteString(m.renderStep(state) + "\n")
	}

	if m.endpoint != nil {
		fmt.Fprintf(&content, "\n%s %s\n",
			m.styles.help.Render("via"),
			m.styles.state.Render(fmt.Sprintf("%s %s", m.endpoint.Kind, m.endpoint.Address())))
	}

	content.WriteString("\n" + m.renderOutcome() + "\n\n")

	if m.running {
		content.WriteString(m.styles.help.Render("q to quit"))
	} else {
		content.WriteString(m.styles.help.Render("Enter to trigger again • q to quit"))
	}

	return m.styles.app.Render(content.String())
}

func (m *triggerModel) renderStep(state models.GateState) string {
	label := strings.ReplaceAll(string(state), "_", " ")

	switch {
	case m.running && m.current == state:
		return m.spinner.View() + " " + m.styles.state.Render(label)
	case m.seen[state]:
		return m.styles.success.Render("✓") + " " + m.styles.done.Render(label)
	default:
		return m.styles.pending.Render("· " + label)
	}
}

func (m *triggerModel) renderOutcome() string {
	if m.final == nil {
		if m.running {
			return m.styles.help.Render("Working...")
		}

		return m.styles.help.Render("Idle")
	}

	switch m.final.State {
	case models.GateReady:
		return m.styles.success.Render("Gate cycled, relay released")
	case models.GateTimeout:
		return m.styles.warning.Render("Timed out waiting for the relay")
	case models.GateNoNetwork:
		return m.styles.warning.Render("No gate device reachable")
	default:
		msg := "Trigger failed"
		if m.final.Error != "" {
			msg += ": " + m.final.Error
		} else if m.final.Err != nil {
			msg += ": " + m.final.Err.Error()
		}

		return m.styles.error.Render(msg)
	}
}

// RunTriggerTUI triggers the gate and shows progress until the user quits.
func RunTriggerTUI(ctx context.Context, t Triggerer) error {
	m := newTriggerModel(ctx, t)

	p := tea.NewProgram(m, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return err
	}

	if m.err != nil {
		return m.err
	}

	if !m.succeeded() {
		state := models.GateState("")
		if m.final != nil {
			state = m.final.State
		}

		return fmt.Errorf("%w: %s", errTriggerFailed, state)
	}

	return nil
}
