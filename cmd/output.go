package cmd

import (
	"fmt"
	"os"

	"cmdsaver/history"
	"cmdsaver/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// printRecordLine prints the one-line summary used by list and search.
func printRecordLine(r model.Record) {
	fmt.Printf("%s | %s - %s %s\n",
		idStyle.Render(r.ShortID()),
		commandStyle.Render(r.Command),
		r.Description,
		mutedStyle.Render("("+r.TagList()+")"),
	)
}

func printRecordDetail(r model.Record, usage *history.Usage) {
	fmt.Printf("🆔 %s %s\n", labelStyle.Render("ID:"), r.ID)
	fmt.Printf("📅 %s %s\n", labelStyle.Render("Created:"), r.CreatedAt)
	fmt.Printf("💻 %s %s\n", labelStyle.Render("Command:"), commandStyle.Render(r.Command))
	fmt.Printf("📝 %s %s\n", labelStyle.Render("Description:"), r.Description)
	fmt.Printf("🏷️  %s %s\n", labelStyle.Render("Tags:"), r.TagList())
	if usage != nil {
		fmt.Printf("🕒 %s %s (%d runs)\n", labelStyle.Render("Last used:"),
			usage.LastUsedAt.Local().Format("2006-01-02 15:04:05"), usage.RunCount)
	}
}

func printNotice(msg string) {
	fmt.Println(warnStyle.Render(msg))
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
}
