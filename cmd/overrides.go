package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var OverridesCmd = &cobra.Command{
	Use:          "overrides CLASS METHOD",
	Short:        "Print the methods of supertypes that METHOD overrides",
	RunE:         runOverrides,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

func runOverrides(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	class, err := s.class(args[0])
	if err != nil {
		return err
	}
	methods := class.MethodsNamed(args[1])
	if len(methods) == 0 {
		return fmt.Errorf("%s declares no method %s", class.Name, args[1])
	}

	out := newTable(cmd.OutOrStdout())
	for _, m := range methods {
		supers, err := s.resolver.FindSuperMethods(cmd.Context(), m, s.scope)
		if err != nil {
			return fmt.Errorf("could not find super methods of %s: %w", m, err)
		}
		for _, super := range supers {
			out.row(m.String(), super.Method.String(), super.Signature.String())
		}
	}
	return out.flush()
}
