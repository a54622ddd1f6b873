package utils

import (
	"strings"

	"menu-app/types"
)

// PathSeparator joins the ancestor id chain of a menu item into its
// materialized path column, e.g. "1001.1002.1003".
const PathSeparator = "."

// JoinPath returns the path of an item placed under parentPath. Root items
// (empty parentPath) get their own id as path.
func JoinPath(parentPath string, id types.SnowflakeID) string {
	if parentPath == "" {
		return id.String()
	}
	return parentPath + PathSeparator + id.String()
}

// IsDescendantPath reports whether candidate lies strictly below ancestor.
// A path is never its own descendant.
func IsDescendantPath(candidate, ancestor string) bool {
	return strings.HasPrefix(candidate, ancestor+PathSeparator)
}

// PathDepth returns the number of id segments in path. Root items have
// depth 1. The empty path has depth 0.
func PathDepth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, PathSeparator) + 1
}

// ParentPath strips the last segment from path. Root items yield "".
func ParentPath(path string) string {
	idx := strings.LastIndex(path, PathSeparator)
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// RewritePathPrefix reattaches a descendant path from oldPrefix to
// newPrefix. The caller guarantees path is oldPrefix itself or below it.
func RewritePathPrefix(path, oldPrefix, newPrefix string) string {
	if path == oldPrefix {
		return newPrefix
	}
	return newPrefix + path[len(oldPrefix):]
}
