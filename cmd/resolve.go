package cmd

import (
	"fmt"

	"github.com/cottand/supers/hierarchy"
	"github.com/spf13/cobra"
)

var ResolveCmd = &cobra.Command{
	Use:   "resolve SUPER DERIVED",
	Short: "Print the type arguments of SUPER as seen from DERIVED",
	Long: `Print the type arguments of SUPER as seen from DERIVED.

DERIVED is instantiated with --args, or seen from inside its own declaration
when --args is omitted. Parameters bound to ⊥ are erased (SUPER is used raw).`,
	RunE:         runResolve,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var resolveArgs *string

func init() {
	resolveArgs = ResolveCmd.Flags().StringP("args", "a", "", "comma separated type arguments of DERIVED")
}

func runResolve(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	super, err := s.class(args[0])
	if err != nil {
		return err
	}
	derived, err := s.class(args[1])
	if err != nil {
		return err
	}
	sub, err := s.substitutor(derived, *resolveArgs)
	if err != nil {
		return err
	}

	res, err := s.resolver.Resolve(cmd.Context(), hierarchy.Query{
		Super:       super,
		Derived:     derived,
		Scope:       s.scope,
		Substitutor: sub,
	})
	if err != nil {
		return fmt.Errorf("could not resolve: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), describe(super, derived, res))
	return err
}

func describe(super, derived *hierarchy.Class, res hierarchy.Resolution) string {
	switch res.Status {
	case hierarchy.NotInheritor:
		return fmt.Sprintf("%s is not an inheritor of %s", derived.Name, super.Name)
	case hierarchy.Inconsistent:
		return fmt.Sprintf("%s (inconsistent: paths from %s disagree)", res.Substitutor, derived.Name)
	default:
		return res.Substitutor.String()
	}
}
