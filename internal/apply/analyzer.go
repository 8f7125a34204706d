package apply

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver" // required to register TiDB parser driver implementations

	"gmc/internal/core"
)

// Statement types the engine generates.
const (
	TypeCreateTable = "CREATE TABLE"
	TypeCreateIndex = "CREATE INDEX"
	TypeAlterTable  = "ALTER TABLE"
	TypeInsert      = "INSERT"
	TypeSelect      = "SELECT"
	TypeDropTable   = "DROP TABLE"
	TypeOther       = "OTHER"
	TypeUnparseable = "UNPARSEABLE"
)

// Keyword fallback for DDL the parser grammar does not cover. Only shapes
// the generator emits are listed.
var fallbackPrefixes = []struct {
	prefix string
	typ    string
}{
	{"CREATE TABLE IF NOT EXISTS ", TypeCreateTable},
	{"CREATE TABLE ", TypeCreateTable},
	{"CREATE INDEX ", TypeCreateIndex},
}

// StatementAnalysis contains the results of analyzing a SQL statement.
type StatementAnalysis struct {
	StatementType     string
	IsDDL             bool
	IsDestructive     bool
	DestructiveReason string
	IsTransactionSafe bool
	TxUnsafeReason    string
	Rejected          bool
	RejectReason      string
}

// StatementAnalyzer uses TiDB's AST parser to decide whether a statement is
// one of the shapes the executor is willing to run.
type StatementAnalyzer struct {
	parser    *parser.Parser
	allowDrop bool
}

// NewStatementAnalyzer creates a new AST-based statement analyzer.
func NewStatementAnalyzer(allowDrop bool) *StatementAnalyzer {
	return &StatementAnalyzer{
		parser:    parser.New(),
		allowDrop: allowDrop,
	}
}

// PreflightResult lists the rejected statements of a batch.
type PreflightResult struct {
	Analyses        []*StatementAnalysis
	Rejections      []Rejection
	IsTransactional bool
}

// Rejection names a statement the executor refuses to run.
type Rejection struct {
	Index  int
	Reason string
	SQL    string
}

// Err returns a REJECTED_STATEMENT error for the first rejection, or nil.
func (r *PreflightResult) Err() error {
	if len(r.Rejections) == 0 {
		return nil
	}
	first := r.Rejections[0]
	return core.Errorf(core.CodeRejectedStatement, "statement %d rejected: %s: %s",
		first.Index+1, first.Reason, truncateSQL(first.SQL))
}

// AnalyzeStatement parses a single SQL statement and returns analysis results.
// Anything but exactly one parsed statement of an allowed shape is rejected.
func (a *StatementAnalyzer) AnalyzeStatement(sql string) *StatementAnalysis {
	stmtNodes, _, err := a.parser.Parse(sql, "", "")
	if err != nil {
		analysis := &StatementAnalysis{
			StatementType:     TypeUnparseable,
			IsTransactionSafe: true,
		}
		a.analyzeOtherStatement(analysis, sql)
		return analysis
	}

	switch len(stmtNodes) {
	case 0:
		return reject(&StatementAnalysis{StatementType: TypeOther}, "empty statement")
	case 1:
		return a.analyzeNode(stmtNodes[0])
	default:
		return reject(&StatementAnalysis{StatementType: TypeOther},
			fmt.Sprintf("%d statements in one string", len(stmtNodes)))
	}
}

// AnalyzeStatements analyzes a batch and collects every rejection.
func (a *StatementAnalyzer) AnalyzeStatements(statements []core.Statement) *PreflightResult {
	result := &PreflightResult{
		IsTransactional: true,
	}

	for i, stmt := range statements {
		analysis := a.AnalyzeStatement(stmt.SQL)
		result.Analyses = append(result.Analyses, analysis)
		if analysis.Rejected {
			result.Rejections = append(result.Rejections, Rejection{Index: i, Reason: analysis.RejectReason, SQL: stmt.SQL})
		}
		if !analysis.IsTransactionSafe {
			result.IsTransactional = false
		}
	}

	return result
}

func (a *StatementAnalyzer) analyzeNode(node ast.StmtNode) *StatementAnalysis {
	analysis := &StatementAnalysis{
		IsTransactionSafe: true,
	}

	if a.analyzeDropNode(node, analysis) {
		return analysis
	}
	if a.analyzeCreateNode(node, analysis) {
		return analysis
	}
	if a.analyzeAlterNode(node, analysis) {
		return analysis
	}
	if a.analyzeDMLNode(node, analysis) {
		return analysis
	}

	analysis.StatementType = TypeOther
	return reject(analysis, fmt.Sprintf("%T is not an allowed statement", node))
}

func (a *StatementAnalyzer) analyzeDropNode(node ast.StmtNode, analysis *StatementAnalysis) bool {
	switch stmt := node.(type) {
	case *ast.DropTableStmt:
		analysis.StatementType = TypeDropTable
		analysis.IsDDL = true
		analysis.IsDestructive = true
		analysis.DestructiveReason = "DROP TABLE will permanently delete the table and all its data"
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "DROP TABLE causes an implicit commit in MySQL"
		switch {
		case !a.allowDrop:
			reject(analysis, "DROP TABLE is only allowed for explicit drop requests")
		case stmt.IsView || len(stmt.Tables) != 1:
			reject(analysis, "DROP must name exactly one table")
		}
		return true
	case *ast.DropDatabaseStmt, *ast.DropIndexStmt:
		analysis.StatementType = TypeOther
		analysis.IsDDL = true
		analysis.IsDestructive = true
		reject(analysis, "drop of databases and indexes is not allowed")
		return true
	default:
		return false
	}
}

func (a *StatementAnalyzer) analyzeCreateNode(node ast.StmtNode, analysis *StatementAnalysis) bool {
	switch stmt := node.(type) {
	case *ast.CreateTableStmt:
		analysis.StatementType = TypeCreateTable
		analysis.IsDDL = true
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "CREATE TABLE causes an implicit commit in MySQL"
		if stmt.Select != nil || stmt.ReferTable != nil {
			reject(analysis, "CREATE TABLE ... SELECT/LIKE is not allowed")
		}
		return true
	case *ast.CreateIndexStmt:
		analysis.StatementType = TypeCreateIndex
		analysis.IsDDL = true
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "CREATE INDEX causes an implicit commit in MySQL"
		return true
	default:
		return false
	}
}

func (a *StatementAnalyzer) analyzeAlterNode(node ast.StmtNode, analysis *StatementAnalysis) bool {
	stmt, ok := node.(*ast.AlterTableStmt)
	if !ok {
		return false
	}
	analysis.StatementType = TypeAlterTable
	analysis.IsDDL = true
	analysis.IsTransactionSafe = false
	analysis.TxUnsafeReason = "ALTER TABLE causes an implicit commit in MySQL"
	for _, spec := range stmt.Specs {
		if spec.Tp != ast.AlterTableAddConstraint || spec.Constraint == nil ||
			spec.Constraint.Tp != ast.ConstraintForeignKey {
			reject(analysis, "ALTER TABLE may only add foreign key constraints")
			break
		}
	}
	return true
}

func (a *StatementAnalyzer) analyzeDMLNode(node ast.StmtNode, analysis *StatementAnalysis) bool {
	switch stmt := node.(type) {
	case *ast.InsertStmt:
		analysis.StatementType = TypeInsert
		if stmt.IsReplace || stmt.Select != nil {
			reject(analysis, "only INSERT ... VALUES is allowed")
		}
		return true
	case *ast.SelectStmt:
		analysis.StatementType = TypeSelect
		if stmt.SelectIntoOpt != nil || stmt.LockInfo != nil {
			reject(analysis, "SELECT INTO and locking reads are not allowed")
		}
		return true
	default:
		return false
	}
}

// analyzeOtherStatement handles text the parser could not read. Only
// single CREATE TABLE and CREATE INDEX statements are accepted this way.
func (a *StatementAnalyzer) analyzeOtherStatement(analysis *StatementAnalysis, originalSQL string) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(originalSQL), ";")
	upper := strings.ToUpper(trimmed)

	if strings.Contains(trimmed, ";") {
		reject(analysis, "unparseable statement contains a statement separator")
		return
	}
	for _, f := range fallbackPrefixes {
		if strings.HasPrefix(upper, f.prefix) {
			analysis.StatementType = f.typ
			analysis.IsDDL = true
			analysis.IsTransactionSafe = false
			analysis.TxUnsafeReason = "DDL statement causes implicit commit"
			return
		}
	}
	reject(analysis, "statement could not be parsed")
}

func reject(analysis *StatementAnalysis, reason string) *StatementAnalysis {
	analysis.Rejected = true
	analysis.RejectReason = reason
	return analysis
}

func truncateSQL(stmt string) string {
	stmt = strings.Join(strings.Fields(stmt), " ")
	if len(stmt) > 80 {
		return stmt[:77] + "..."
	}
	return stmt
}
