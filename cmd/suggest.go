package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli"
	"github.com/xrash/smetrics"
)

type suggestion struct {
	name  string
	score float64
}

func levenshteinRatio(s, t string) float64 {
	lensum := float64(len(s) + len(t))
	if lensum == 0 {
		return 1.0
	}

	dist := float64(smetrics.WagnerFischer(s, t, 1, 1, 2))
	return (lensum - dist) / lensum
}

// findSimilar returns all candidates that look like `name`, best match first.
func findSimilar(name string, candidates []string) []suggestion {
	similars := []suggestion{}
	for _, candidate := range candidates {
		if score := levenshteinRatio(name, candidate); score >= 0.6 {
			similars = append(similars, suggestion{
				name:  candidate,
				score: score,
			})
		}
	}

	sort.SliceStable(similars, func(i, j int) bool {
		return similars[i].score > similars[j].score
	})

	return similars
}

func formatSuggestions(similars []suggestion) string {
	switch len(similars) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("Did you maybe mean `%s`?", color.GreenString(similars[0].name))
	default:
		names := []string{}
		for _, similar := range similars {
			names = append(names, "  * "+color.GreenString(similar.name))
		}

		return "Did you maybe mean one of those?\n" + strings.Join(names, "\n")
	}
}

func commandNames(app *cli.App) []string {
	names := []string{}
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
		names = append(names, cmd.Aliases...)
	}

	return names
}

// suggestCommand returns a hint if `name` looks like a mistyped command.
func suggestCommand(ctx *cli.Context, name string) string {
	return formatSuggestions(findSimilar(name, commandNames(ctx.App)))
}

func commandNotFound(ctx *cli.Context, cmdName string) {
	fmt.Fprintf(stdout, "`%s` is not a valid command.", color.RedString(cmdName))
	if hint := suggestCommand(ctx, cmdName); hint != "" {
		fmt.Fprintf(stdout, " %s", hint)
	}

	fmt.Fprintln(stdout)
}
