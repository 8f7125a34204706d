package output

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"gmc/internal/api"
	"gmc/internal/core"
	"gmc/internal/introspect"
	"gmc/internal/service"
)

type humanFormatter struct{}

// FormatEnvelope renders the envelope as readable text. Failures print the
// error first and still render any data they carry.
func (humanFormatter) FormatEnvelope(env api.Envelope) (string, error) {
	var sb strings.Builder
	if !env.Success {
		sb.WriteString("Error")
		if env.Code != "" {
			fmt.Fprintf(&sb, " [%s]", env.Code)
		}
		fmt.Fprintf(&sb, ": %s\n", env.Error)
		if env.Data == nil {
			return sb.String(), nil
		}
		sb.WriteString("\n")
	} else if env.Message != "" {
		sb.WriteString(env.Message)
		sb.WriteString("\n\n")
	}

	switch data := env.Data.(type) {
	case nil:
	case []core.MechanicType:
		for _, t := range data {
			fmt.Fprintf(&sb, "  %s\n", t)
		}
	case []core.MechanicInfo:
		writeCatalog(&sb, data)
	case core.BattlePassTemplate:
		writeTemplate(&sb, data)
	case *service.Artifacts:
		writeArtifacts(&sb, data)
	case *service.ExecutionReport:
		writeExecutionReport(&sb, data)
	case []core.TableSummary:
		writeTableList(&sb, data)
	case *core.TableDescriptor:
		writeDescriptor(&sb, data)
	case *introspect.ServerInfo:
		fmt.Fprintf(&sb, "Server:   %s %s\n", data.Flavor, data.Version)
		fmt.Fprintf(&sb, "Database: %s\n", data.Database)
	case *core.DropResult:
		fmt.Fprintf(&sb, "Dropped %s at %s\n", data.TableName, data.DroppedAt.Format(time.RFC3339))
	default:
		fmt.Fprintf(&sb, "%+v\n", data)
	}
	return sb.String(), nil
}

func writeCatalog(sb *strings.Builder, entries []core.MechanicInfo) {
	tw := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tTITLE\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Type, e.Title, e.Status)
	}
	_ = tw.Flush()
}

func writeTemplate(sb *strings.Builder, tpl core.BattlePassTemplate) {
	fmt.Fprintf(sb, "%s: %d tiers over %d days, progress in %s\n",
		tpl.Name, tpl.MaxTiers, tpl.SeasonDuration, tpl.CurrencyType)

	writeSection(sb, "Rewards")
	tw := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tXP\tTYPE\tREWARD\tTRACK")
	for _, r := range tpl.Rewards {
		track := "free"
		if r.IsPremium {
			track = "premium"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", r.Tier, r.XPRequired, r.Reward.Type, r.Reward.Description, track)
	}
	_ = tw.Flush()

	writeSection(sb, "User fields")
	tw = tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)
	for _, f := range tpl.UserFields {
		required := ""
		if f.Required {
			required = "required"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Type, required)
	}
	_ = tw.Flush()
}

func writeArtifacts(sb *strings.Builder, art *service.Artifacts) {
	if art.Schema != nil {
		fmt.Fprintf(sb, "%s (%s), table %s\n", art.Schema.Name, art.Schema.ID, art.TableName)
	}

	writeSection(sb, "Migration SQL")
	sb.WriteString(art.DDL)
	if art.BattlePassDDL != "" {
		writeSection(sb, "Battle pass table")
		sb.WriteString(normalizeStatement(art.BattlePassDDL))
		sb.WriteString("\n")
	}
	if art.SeedPreview != "" {
		writeSection(sb, "Seed preview")
		sb.WriteString(art.SeedPreview)
		sb.WriteString("\n")
	}

	writeSection(sb, "Preview")
	if art.PreviewData.Message != "" {
		sb.WriteString(art.PreviewData.Message)
		sb.WriteString("\n")
	}
	if len(art.PreviewData.SampleUser) > 0 {
		sb.WriteString("sample user:\n")
		writeRow(sb, art.PreviewData.SampleUser)
	}
	if r := art.PreviewData.NextReward; r != nil {
		fmt.Fprintf(sb, "next reward: tier %d at %d XP, %s\n", r.Tier, r.XPRequired, r.Reward.Description)
	}

	writeSection(sb, "Generated code")
	sb.WriteString(art.GeneratedCode)
}

func writeExecutionReport(sb *strings.Builder, r *service.ExecutionReport) {
	fmt.Fprintf(sb, "Table:    %s\n", r.TableName)
	fmt.Fprintf(sb, "Create:   %s (%d affected)\n", r.CreateResult.Message, r.CreateResult.AffectedRows)
	fmt.Fprintf(sb, "Insert:   %s\n", r.InsertResult.Message)
	if !r.ExecutedAt.IsZero() {
		fmt.Fprintf(sb, "Executed: %s\n", r.ExecutedAt.Format(time.RFC3339))
	}
	if len(r.Errors) > 0 {
		writeSection(sb, "Errors")
		for _, e := range r.Errors {
			fmt.Fprintf(sb, "  - %s\n", e)
		}
	}
	if len(r.InsertResult.SampleData) > 0 {
		writeSection(sb, fmt.Sprintf("Sample rows (%d)", len(r.InsertResult.SampleData)))
		for _, row := range r.InsertResult.SampleData {
			writeRow(sb, row)
		}
	}
}

func writeTableList(sb *strings.Builder, tables []core.TableSummary) {
	if len(tables) == 0 {
		sb.WriteString("No tables found.\n")
		return
	}
	tw := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tROWS\tENGINE\tCREATED")
	for _, t := range tables {
		created := "-"
		if t.CreatedAt != nil {
			created = t.CreatedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", t.TableName, t.RowCount, t.Engine, created)
	}
	_ = tw.Flush()
}

func writeDescriptor(sb *strings.Builder, d *core.TableDescriptor) {
	fmt.Fprintf(sb, "Table:     %s\n", d.TableName)
	fmt.Fprintf(sb, "Rows:      %d\n", d.RowCount)
	fmt.Fprintf(sb, "Engine:    %s\n", d.Engine)
	fmt.Fprintf(sb, "Collation: %s\n", d.Collation)

	writeSection(sb, "Columns")
	tw := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tNULL\tKEY\tDEFAULT")
	for _, c := range d.Columns {
		null := "NO"
		if c.Nullable {
			null = "YES"
		}
		def := ""
		if c.Default != nil {
			def = *c.Default
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.Type, null, c.Key, def)
	}
	_ = tw.Flush()

	if len(d.Indexes) > 0 {
		writeSection(sb, "Indexes")
		var names []string
		seen := map[string]bool{}
		for _, idx := range d.Indexes {
			if !seen[idx.Name] {
				seen[idx.Name] = true
				names = append(names, idx.Name)
			}
		}
		for _, name := range names {
			cols, unique := d.IndexColumns(name)
			kind := "INDEX"
			if unique {
				kind = "UNIQUE"
			}
			fmt.Fprintf(sb, "  %s %s (%s)\n", kind, name, strings.Join(cols, ", "))
		}
	}

	if len(d.SampleRows) > 0 {
		writeSection(sb, fmt.Sprintf("Sample rows (%d)", len(d.SampleRows)))
		for _, row := range d.SampleRows {
			writeRow(sb, row)
		}
	}
}

// writeRow prints a row on one line with its columns sorted by name.
func writeRow(sb *strings.Builder, row map[string]any) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, row[k])
	}
	sb.WriteString("  ")
	sb.WriteString(strings.Join(parts, " "))
	sb.WriteString("\n")
}
