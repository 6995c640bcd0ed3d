// Package banner renders the startup splash panel. Presentation only; the
// rest of the CLI works the same whether or not it is shown.
package banner

import (
	"fmt"
	"io"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"

	"github.com/charmbracelet/lipgloss"
)

const author = "Iurii Golubnichenko aka Ghost Rider"

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(1, 4)

	titleStyle  = lipgloss.NewStyle().Bold(true)
	authorStyle = lipgloss.NewStyle().Faint(true)
)

// Render writes the splash panel to w.
func Render(w io.Writer) {
	body := titleStyle.Render(fmt.Sprintf("%s v%s", common.AppName, common.Version)) +
		"\n" + authorStyle.Render("Author <"+author+">")
	fmt.Fprintln(w, panelStyle.Render(body))
}
