package cmd

import (
	"fmt"

	"github.com/cottand/supers/hierarchy"
	"github.com/spf13/cobra"
)

var SupersCmd = &cobra.Command{
	Use:          "supers CLASS",
	Short:        "Print every supertype of CLASS with its type arguments",
	RunE:         runSupers,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var supersArgs *string

func init() {
	supersArgs = SupersCmd.Flags().StringP("args", "a", "", "comma separated type arguments of CLASS")
}

func runSupers(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	class, err := s.class(args[0])
	if err != nil {
		return err
	}
	sub, err := s.substitutor(class, *supersArgs)
	if err != nil {
		return err
	}

	ancestors, err := s.resolver.Ancestors(cmd.Context(), class, s.scope)
	if err != nil {
		return fmt.Errorf("could not list supertypes: %w", err)
	}
	queries := make([]hierarchy.Query, len(ancestors))
	for i, ancestor := range ancestors {
		queries[i] = hierarchy.Query{Super: ancestor, Derived: class, Scope: s.scope, Substitutor: sub}
	}
	results, err := s.resolver.ResolveAll(cmd.Context(), queries)
	if err != nil {
		return fmt.Errorf("could not resolve supertypes: %w", err)
	}

	out := newTable(cmd.OutOrStdout())
	for i, res := range results {
		out.row(ancestors[i].Name, ancestors[i].Kind.String(), res.Status.String(), res.Substitutor.String())
	}
	return out.flush()
}
