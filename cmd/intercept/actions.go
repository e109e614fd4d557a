package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/priceflex/intercept/internal/presentation/tui"
	"github.com/priceflex/intercept/pkg/domain"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the action vocabulary",
	Long:  `Prints the built-in actions handlers can be bound to, with their record-surface binding names.`,
	Run: func(cmd *cobra.Command, args []string) {
		doc, _ := cmd.Flags().GetBool("doc")
		actions := domain.DefaultActions()

		if !doc {
			for _, name := range actions.Names() {
				info, _ := actions.Info(name)
				fmt.Printf("%-34s %s\n", info.Name, info.Description)
			}
			return
		}

		markdown := actionReference(actions)
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			// Piped output gets the raw markdown.
			fmt.Print(markdown)
			return
		}
		render := tui.NewRenderer()
		out, err := render(markdown)
		if err != nil {
			fmt.Print(markdown)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)

	actionsCmd.Flags().Bool("doc", false, "Render the full markdown action reference")
}

// actionReference renders the vocabulary as a markdown reference document.
func actionReference(actions *domain.ActionSet) string {
	var b strings.Builder
	b.WriteString("# Action Reference\n\n")
	b.WriteString("Bind a PRE handler with the `Pre`-suffixed binding name; the bare action name binds POST.\n\n")
	for _, name := range actions.Names() {
		info, _ := actions.Info(name)
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", info.Name, info.Description)
		if info.Object != domain.ObjectNone {
			fmt.Fprintf(&b, "- Object: `%s`\n", info.Object)
		}
		if info.Search {
			b.WriteString("- Input: search text\n")
		}
		fmt.Fprintf(&b, "- PRE binding: `%s`\n", domain.BindingName(info.Name, domain.PhasePre))
		fmt.Fprintf(&b, "- POST binding: `%s`\n\n", domain.BindingName(info.Name, domain.PhasePost))
	}
	return b.String()
}
