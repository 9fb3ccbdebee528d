package protocol

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakedeck/lakedeck/docs"
)

// docsCmd renders a markdown document (connector docs, usually) to stdout.
var docsCmd = &cobra.Command{
	Use:   "docs <file>",
	Short: "Render a markdown document with the platform theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		markdown, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %s", args[0], err)
		}

		fmt.Fprint(os.Stdout, docs.NewRenderer().Render(string(markdown)))
		return nil
	},
}
