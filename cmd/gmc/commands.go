package main

import (
	"context"

	"github.com/spf13/cobra"

	"gmc/internal/api"
	"gmc/internal/core"
	tomlparser "gmc/internal/parser/toml"
)

func typesCmd(a *app) *cobra.Command {
	var catalog bool
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the supported mechanic types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, false, func(_ context.Context, h *api.Handler) api.Envelope {
				if catalog {
					return h.MechanicCatalog()
				}
				return h.ListAvailableMechanicTypes()
			})
		},
	}
	cmd.Flags().BoolVar(&catalog, "catalog", false, "Show titles and availability")
	return cmd
}

func templateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Show the default battle pass template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, false, func(_ context.Context, h *api.Handler) api.Envelope {
				return h.BattlePassTemplate()
			})
		},
	}
}

func generateCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "generate --file <request.toml>",
		Short: "Generate the schema, SQL and code for a mechanic",
		Long: `Generate reads a TOML request describing a mechanic and prints its schema,
the migration SQL, generated Go repository code and preview data.
Nothing is sent to the database; use --format sql to get a script only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := tomlparser.NewParser().ParseFile(file)
			if err != nil {
				return a.render(api.Fail(err))
			}
			return a.run(cmd, false, func(_ context.Context, h *api.Handler) api.Envelope {
				return h.GenerateSchemaArtifacts(doc.Request)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "TOML request file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func executeCmd(a *app) *cobra.Command {
	var file string
	var fields core.FieldMap
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Create and seed a battle pass table",
		Long: `Execute creates the battle pass progress table if it does not exist, inserts
the seed rows (skipping players already present for the season) and reads
the table back. Field names come from --file when given, then from flags.
Without seed rows in the file the demonstration players are used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.ExecuteRequest{Schema: core.DefaultFieldMap()}
			if file != "" {
				doc, err := tomlparser.NewParser().ParseFile(file)
				if err != nil {
					return a.render(api.Fail(err))
				}
				if doc.Request.MechanicType != core.MechanicBattlePass {
					return a.render(api.Fail(core.Errorf(core.CodeInvalidRequest,
						"execute needs a %s request, got %s", core.MechanicBattlePass, doc.Request.MechanicType)))
				}
				req.Schema = doc.FieldMap()
				req.Rows = doc.SeedRows
			}
			req.Schema = overrideFields(req.Schema, fields)

			return a.run(cmd, true, func(ctx context.Context, h *api.Handler) api.Envelope {
				return h.ExecuteLiveSchema(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "TOML battle pass request with optional [battle_pass.schema] and [[seed]] rows")
	cmd.Flags().StringVar(&fields.TableName, "table", "", "Table name")
	cmd.Flags().StringVar(&fields.UserID, "user-id-field", "", "User id column")
	cmd.Flags().StringVar(&fields.Username, "username-field", "", "Username column")
	cmd.Flags().StringVar(&fields.Tier, "tier-field", "", "Tier column")
	cmd.Flags().StringVar(&fields.XP, "xp-field", "", "XP column")
	cmd.Flags().StringVar(&fields.Premium, "premium-field", "", "Premium flag column")
	cmd.Flags().StringVar(&fields.SeasonID, "season-id-field", "", "Season id column")
	return cmd
}

// overrideFields replaces every name of base that is set in flags.
func overrideFields(base, flags core.FieldMap) core.FieldMap {
	pick := func(flag, fallback string) string {
		if flag == "" {
			return fallback
		}
		return flag
	}
	return core.FieldMap{
		TableName: pick(flags.TableName, base.TableName),
		UserID:    pick(flags.UserID, base.UserID),
		Username:  pick(flags.Username, base.Username),
		Tier:      pick(flags.Tier, base.Tier),
		XP:        pick(flags.XP, base.XP),
		Premium:   pick(flags.Premium, base.Premium),
		SeasonID:  pick(flags.SeasonID, base.SeasonID),
	}
}

func listCmd(a *app) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List live tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, true, func(ctx context.Context, h *api.Handler) api.Envelope {
				return h.ListLiveSchemas(ctx, pattern)
			})
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Only list tables whose name contains this text")
	return cmd
}

func describeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show columns, indexes and sample rows of a live table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := core.Sanitize(args[0]); err != nil {
				return a.render(api.Fail(err))
			}
			return a.run(cmd, true, func(ctx context.Context, h *api.Handler) api.Envelope {
				return h.DescribeLiveSchema(ctx, args[0])
			})
		},
	}
}

func dropCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "drop <table>",
		Short: "Drop a live table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := core.SanitizeTableName(args[0]); err != nil {
				return a.render(api.Fail(err))
			}
			if !yes {
				return a.render(api.Fail(core.Errorf(core.CodeInvalidRequest,
					"refusing to drop %s without --yes", args[0])))
			}
			return a.run(cmd, true, func(ctx context.Context, h *api.Handler) api.Envelope {
				return h.DropLiveSchema(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the drop")
	return cmd
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the database connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, true, func(ctx context.Context, h *api.Handler) api.Envelope {
				return h.ServerInfo(ctx)
			})
		},
	}
}
