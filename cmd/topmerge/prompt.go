package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/rmera/topmerge/include"
	"github.com/rmera/topmerge/internal/logger"
	"github.com/spf13/cobra"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	indexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// chooser asks the user which of the candidates should be used. With the
// first option set, it takes the first candidate without asking.
func (a *app) chooser(cmd *cobra.Command) include.Chooser {
	if a.v.GetBool("first") {
		return func(reference string, candidates []string) (int, error) {
			i, err := include.First(reference, candidates)
			logger.Info("several files match "+reference+", using the first", "file", candidates[i])
			return i, err
		}
	}
	return func(reference string, candidates []string) (int, error) {
		w := cmd.ErrOrStderr()
		fmt.Fprintln(w, questionStyle.Render(fmt.Sprintf("%s is found in:", reference)))
		for i, c := range candidates {
			fmt.Fprintf(w, "%s %s\n", indexStyle.Render(fmt.Sprintf("%3d", i)), c)
		}
		fmt.Fprint(w, questionStyle.Render("Choose one:")+" ")
		ans, err := a.readLine(cmd)
		if err != nil {
			return -1, err
		}
		return strconv.Atoi(ans)
	}
}
