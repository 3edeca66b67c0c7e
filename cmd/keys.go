// File: cmd/keys.go
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/userevent/internal/config"
	"github.com/xkilldash9x/userevent/internal/keyboard"
	"github.com/xkilldash9x/userevent/internal/pointer"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Inspects key descriptor strings.",
	}

	var isPointer bool
	parse := &cobra.Command{
		Use:   "parse <descriptors>",
		Short: "Shows how a descriptor string resolves against the configured layout.",
		Example: `  userevent keys parse 'a{Shift>}B{/Shift}{Enter>3}'
  userevent keys parse --pointer '[MouseLeft][TouchA>]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if isPointer {
				m, err := config.LoadPointerMap(cfg.Engine().PointerMapFile)
				if err != nil {
					return err
				}
				if m == nil {
					m = pointer.DefaultMap()
				}
				return printPointerKeys(cmd.OutOrStdout(), args[0], m)
			}
			m, err := config.LoadKeyboardMap(cfg.Engine().KeyboardMapFile)
			if err != nil {
				return err
			}
			if m == nil {
				m = keyboard.DefaultMap()
			}
			return printKeyboardKeys(cmd.OutOrStdout(), args[0], m)
		},
	}
	parse.Flags().BoolVarP(&isPointer, "pointer", "p", false, "parse pointer button descriptors")
	cmd.AddCommand(parse)
	return cmd
}

func printKeyboardKeys(w io.Writer, text string, m keyboard.Map) error {
	actions, err := keyboard.Parse(text, m)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tCODE\tKEYCODE\tRELEASE_PREVIOUS\tRELEASE\tREPEAT")
	for _, a := range actions {
		fmt.Fprintf(tw, "%q\t%s\t%d\t%t\t%t\t%d\n", a.Def.Key, a.Def.Code, a.Def.KeyCode, a.ReleasePrevious, a.ReleaseSelf, a.Repeat)
	}
	return tw.Flush()
}

func printPointerKeys(w io.Writer, text string, m pointer.Map) error {
	actions, err := pointer.Parse(text, m)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPOINTER_TYPE\tBUTTON\tRELEASE_PREVIOUS\tRELEASE")
	for _, a := range actions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%t\n", a.Key.Name, a.Key.PointerType, a.Key.Button, a.ReleasePrevious, a.ReleaseSelf)
	}
	return tw.Flush()
}
