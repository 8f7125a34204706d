package mysql

import (
	"strings"
)

// Server flavors reported by ServerInfo.
const (
	FlavorMySQL   = "mysql"
	FlavorMariaDB = "mariadb"
	FlavorTiDB    = "tidb"
)

func detectServer(ic *introspectCtx) (string, string, error) {
	var varName, comment string

	err := ic.conn.QueryRowContext(ic.ctx, "SHOW VARIABLES LIKE 'version_comment'").Scan(&varName, &comment)
	if err != nil {
		return "", "", err
	}

	comment = strings.ToLower(comment)

	switch {
	case strings.Contains(comment, "mariadb"):
		return FlavorMariaDB, getVersion(ic), nil
	case strings.Contains(comment, "tidb"):
		return FlavorTiDB, getVersion(ic), nil
	default:
		return FlavorMySQL, getVersion(ic), nil
	}
}

func getVersion(ic *introspectCtx) string {
	var version string
	_ = ic.conn.QueryRowContext(ic.ctx, "SELECT VERSION()").Scan(&version)
	if idx := strings.Index(version, "-"); idx > 0 {
		version = version[:idx]
	}
	return version
}
