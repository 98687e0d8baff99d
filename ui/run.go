package ui

import (
	"context"

	"cmdsaver/snippets"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, svc *snippets.Service, shell string) error {
	app, err := NewApp(ctx, svc, shell)
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
