// Package codegen renders Go data-access code for a generated mechanic
// table: a row struct plus a repository with create, get-by-id, update and
// delete methods. The output is an artifact for the caller to copy; the
// engine itself never compiles or runs it.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gmc/internal/core"
)

// DefaultPackage is used when Options.Package is empty.
const DefaultPackage = "mechanics"

// initialisms are rendered in upper case as whole words of a field name.
var initialisms = map[string]string{
	"Id":   "ID",
	"Xp":   "XP",
	"Url":  "URL",
	"Json": "JSON",
	"Api":  "API",
	"Uuid": "UUID",
}

// Options tunes the rendered file.
type Options struct {
	Package string
}

type field struct {
	GoName string
	GoType string
	Column string
}

type fileData struct {
	SchemaName   string
	Package      string
	Type         string
	Table        string
	Fields       []field
	NeedsJSON    bool
	ColumnList   string
	Placeholders string
	InsertArgs   string
	ScanArgs     string
	SetList      string
}

var title = cases.Title(language.Und, cases.NoLower)

var fileTemplate = template.Must(template.New("repository").Parse(`// Code generated by gmc for the {{.SchemaName}} mechanic. DO NOT EDIT.

package {{.Package}}

import (
	"context"
	"database/sql"
{{- if .NeedsJSON}}
	"encoding/json"
{{- end}}
	"fmt"
	"time"
)

// {{.Type}} is one row of {{.Table}}. Open the pool with parseTime=true.
type {{.Type}} struct {
	ID int64 ` + "`db:\"id\" json:\"id\"`" + `
{{- range .Fields}}
	{{.GoName}} {{.GoType}} ` + "`db:\"{{.Column}}\" json:\"{{.Column}}\"`" + `
{{- end}}
	CreatedAt time.Time ` + "`db:\"created_at\" json:\"created_at\"`" + `
	UpdatedAt time.Time ` + "`db:\"updated_at\" json:\"updated_at\"`" + `
}

// {{.Type}}Repository reads and writes {{.Table}}.
type {{.Type}}Repository struct {
	db *sql.DB
}

// New{{.Type}}Repository returns a repository over db.
func New{{.Type}}Repository(db *sql.DB) *{{.Type}}Repository {
	return &{{.Type}}Repository{db: db}
}

// Create inserts row and returns the new id.
func (r *{{.Type}}Repository) Create(ctx context.Context, row *{{.Type}}) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO {{.Table}} ({{.ColumnList}}) VALUES ({{.Placeholders}})"{{if .InsertArgs}},
		{{.InsertArgs}}{{end}})
	if err != nil {
		return 0, fmt.Errorf("create {{.Table}}: %w", err)
	}
	return res.LastInsertId()
}

// GetByID returns the row with the given id, or sql.ErrNoRows.
func (r *{{.Type}}Repository) GetByID(ctx context.Context, id int64) (*{{.Type}}, error) {
	row := new({{.Type}})
	err := r.db.QueryRowContext(ctx,
		"SELECT id, {{if .ColumnList}}{{.ColumnList}}, {{end}}created_at, updated_at FROM {{.Table}} WHERE id = ?", id).
		Scan(&row.ID, {{if .ScanArgs}}{{.ScanArgs}}, {{end}}&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get {{.Table}} %d: %w", id, err)
	}
	return row, nil
}
{{if .Fields}}
// Update writes every column of row.
func (r *{{.Type}}Repository) Update(ctx context.Context, row *{{.Type}}) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE {{.Table}} SET {{.SetList}} WHERE id = ?",
		{{.InsertArgs}}, row.ID)
	if err != nil {
		return fmt.Errorf("update {{.Table}} %d: %w", row.ID, err)
	}
	return nil
}
{{end}}
// Delete removes the row with the given id.
func (r *{{.Type}}Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM {{.Table}} WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete {{.Table}} %d: %w", id, err)
	}
	return nil
}
`))

// Generate renders the repository source for schema stored in table.
func Generate(schema *core.MechanicSchema, table core.Identifier, opts Options) (string, error) {
	if schema == nil {
		return "", core.Errorf(core.CodeInvalidRequest, "schema is nil")
	}
	pkg := opts.Package
	if pkg == "" {
		pkg = DefaultPackage
	}
	if !isPackageName(pkg) {
		return "", core.Errorf(core.CodeInvalidRequest, "invalid package name %q", pkg)
	}

	data := fileData{
		SchemaName: strings.Join(strings.Fields(schema.Name), " "),
		Package:    pkg,
		Type:       TypeName(schema),
		Table:      table.String(),
	}

	used := map[string]bool{"ID": true, "CreatedAt": true, "UpdatedAt": true}
	var cols, marks, args, scans, sets []string
	for i := range schema.Attributes {
		attr := &schema.Attributes[i]
		col, err := core.SanitizeColumn(attr.Name)
		if err != nil {
			return "", fmt.Errorf("attribute %d: %w", i, err)
		}
		t, ok := core.ParseAttributeType(string(attr.Type))
		if !ok {
			return "", core.Errorf(core.CodeInvalidAttribute, "attribute %q has unsupported type %q", attr.Name, attr.Type)
		}

		name := uniqueName(PascalCase(col.String()), used)
		f := field{GoName: name, GoType: goType(t, attr.Required), Column: col.String()}
		data.Fields = append(data.Fields, f)
		if t == core.AttrJSON {
			data.NeedsJSON = true
		}

		cols = append(cols, f.Column)
		marks = append(marks, "?")
		args = append(args, "row."+f.GoName)
		scans = append(scans, "&row."+f.GoName)
		sets = append(sets, f.Column+" = ?")
	}
	data.ColumnList = strings.Join(cols, ", ")
	data.Placeholders = strings.Join(marks, ", ")
	data.InsertArgs = strings.Join(args, ", ")
	data.ScanArgs = strings.Join(scans, ", ")
	data.SetList = strings.Join(sets, ", ")

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render repository: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("format repository: %w", err)
	}
	return string(src), nil
}

// TypeName derives the exported Go type name of a schema from its display
// name, falling back to the mechanic type.
func TypeName(schema *core.MechanicSchema) string {
	name := PascalCase(schema.Name)
	if name == "" {
		name = PascalCase(string(schema.Type))
	}
	if name == "" || !unicode.IsLetter(rune(name[0])) {
		name = "Mechanic" + name
	}
	return name
}

// PascalCase joins the letter and digit runs of s, title-casing each run and
// upper-casing common initialisms.
func PascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	var b strings.Builder
	for _, w := range words {
		w = title.String(w)
		if up, ok := initialisms[w]; ok {
			w = up
		}
		b.WriteString(w)
	}
	return b.String()
}

func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s%d", name, n)
	}
	used[candidate] = true
	return candidate
}

func goType(t core.AttributeType, required bool) string {
	var base string
	switch t {
	case core.AttrInt, core.AttrBigInt:
		base = "int64"
	case core.AttrDecimal:
		base = "float64"
	case core.AttrBoolean:
		base = "bool"
	case core.AttrDate, core.AttrDatetime:
		base = "time.Time"
	case core.AttrJSON:
		return "json.RawMessage"
	default:
		base = "string"
	}
	if !required {
		return "*" + base
	}
	return base
}

func isPackageName(s string) bool {
	if s == "" || !unicode.IsLower(rune(s[0])) {
		return false
	}
	for _, r := range s {
		if !(unicode.IsLower(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
