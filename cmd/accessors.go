package cmd

import (
	"github.com/cottand/supers/hierarchy"
	"github.com/spf13/cobra"
)

var AccessorsCmd = &cobra.Command{
	Use:          "accessors CLASS",
	Short:        "Print the property accessors declared in CLASS",
	RunE:         runAccessors,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

func runAccessors(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	class, err := s.class(args[0])
	if err != nil {
		return err
	}

	out := newTable(cmd.OutOrStdout())
	chain := hierarchy.NewAccessorChain()
	for _, a := range chain.Accessors(class, hierarchy.IdentitySubstitutor(class)) {
		out.row(a.Property, a.Kind.String(), a.Method.String())
	}
	return out.flush()
}
