package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cottand/supers/decl"
	"github.com/cottand/supers/hierarchy"
	"github.com/cottand/supers/hierarchy/hierr"
	"github.com/cottand/supers/internal/config"
	"github.com/cottand/supers/internal/log"
	"github.com/spf13/cobra"
)

var logger = log.DefaultLogger.With("section", "cli")

var (
	declsPath  *string
	configPath *string
	logLevel   *int
)

// RegisterFlags adds the flags every subcommand understands to root
func RegisterFlags(root *cobra.Command) {
	declsPath = root.PersistentFlags().StringP("decls", "d", "", "declarations file (YAML)")
	configPath = root.PersistentFlags().StringP("config", "c", "", "config file (YAML)")
	logLevel = root.PersistentFlags().IntP("log-level", "l", int(slog.LevelWarn), "log level, overrides the config")
	_ = root.MarkPersistentFlagRequired("decls")
}

// session is what every subcommand works with: the loaded declarations
// and a resolver configured for them
type session struct {
	snapshot *hierarchy.Snapshot
	resolver *hierarchy.Resolver
	scope    hierarchy.Scope
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = *logLevel
	}
	cfg.ApplyLogging()

	snapshot, errs, err := decl.LoadFile(*declsPath)
	if err != nil {
		return nil, fmt.Errorf("could not load declarations: %w", err)
	}
	if errs.HasError() {
		sb := &strings.Builder{}
		byFile := errs.ByFile()
		for _, file := range errs.Files() {
			for _, declError := range byFile[file] {
				sb.WriteString("\n")
				sb.WriteString(hierr.FormatWithCode(declError))
			}
		}
		return nil, fmt.Errorf("%s found in declarations:%s", errs.Summary(), sb.String())
	}
	for _, warning := range errs.Warnings() {
		logger.Warn(hierr.FormatWithCode(warning))
	}

	return &session{
		snapshot: snapshot,
		resolver: hierarchy.NewResolver(snapshot, cfg.ResolverOptions()...),
		scope:    cfg.HierarchyScope(),
	}, nil
}

func (s *session) class(name string) (*hierarchy.Class, error) {
	c, ok := s.snapshot.Lookup(name, s.scope)
	if !ok {
		return nil, fmt.Errorf("class %s is not declared or not visible", name)
	}
	return c, nil
}

// substitutor instantiates c with the comma separated type arguments in args.
// Without arguments, c is seen from inside its own declaration.
func (s *session) substitutor(c *hierarchy.Class, args string) (hierarchy.Substitutor, error) {
	if args == "" {
		return hierarchy.IdentitySubstitutor(c), nil
	}
	exprs := decl.SplitTypeList(args)
	if len(exprs) != len(c.TypeParams) {
		return hierarchy.Substitutor{}, fmt.Errorf("%s expects %d type arguments, but %d were given", c.Name, len(c.TypeParams), len(exprs))
	}
	types := make([]hierarchy.Type, len(exprs))
	for i, expr := range exprs {
		t, err := decl.ParseType(s.snapshot, s.scope, expr)
		if err != nil {
			return hierarchy.Substitutor{}, fmt.Errorf("invalid type argument %d: %w", i+1, err)
		}
		types[i] = t
	}
	return hierarchy.EmptySubstitutor.PutAll(c.TypeParams, types), nil
}
