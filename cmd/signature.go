package cmd

import (
	"fmt"

	"github.com/cottand/supers/hierarchy"
	"github.com/spf13/cobra"
)

var SignatureCmd = &cobra.Command{
	Use:          "signature CLASS METHOD",
	Short:        "Print the signatures of the METHOD overloads declared in CLASS",
	RunE:         runSignature,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var (
	signatureVia  *string
	signatureArgs *string
)

func init() {
	signatureVia = SignatureCmd.Flags().String("via", "", "print the signatures as seen from this subclass of CLASS")
	signatureArgs = SignatureCmd.Flags().StringP("args", "a", "", "comma separated type arguments of the --via class, or of CLASS")
}

func runSignature(cmd *cobra.Command, args []string) error {
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

	from := class
	if *signatureVia != "" {
		if from, err = s.class(*signatureVia); err != nil {
			return err
		}
	}
	fromSub, err := s.substitutor(from, *signatureArgs)
	if err != nil {
		return err
	}
	sub, ok, err := s.resolver.ClassSubstitutor(cmd.Context(), class, from, s.scope, fromSub)
	if err != nil {
		return fmt.Errorf("could not resolve %s from %s: %w", class.Name, from.Name, err)
	}
	if !ok {
		return fmt.Errorf("%s is not an inheritor of %s", from.Name, class.Name)
	}

	out := newTable(cmd.OutOrStdout())
	for _, m := range methods {
		sig := hierarchy.FromDeclaration(m, sub)
		out.row(m.String(), sig.String())
	}
	return out.flush()
}
