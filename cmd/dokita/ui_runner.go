package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dokita/internal/analyze"
	"dokita/internal/ui"
)

var progressStages = []analyze.Stage{
	analyze.StageManifest,
	analyze.StageCode,
	analyze.StageDeps,
	analyze.StageAudit,
}

// runProgressUI renders events until the channel closes.
func runProgressUI(events <-chan analyze.Event) error {
	model := ui.NewProgressModel("checking project", progressStages, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, err := program.Run()
	return err
}
