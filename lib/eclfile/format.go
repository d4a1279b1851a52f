package eclfile

import (
	"path/filepath"
	"regexp"
	"strings"
)

// formattedExtensions are the well-known extensions that mark an ASCII
// (formatted) Eclipse file, per spec.md §4.2.
var formattedExtensions = map[string]bool{
	".FEGRID":  true,
	".FINIT":   true,
	".FUNSMRY": true,
	".FSMSPEC": true,
}

// numberedExt matches the numbered multi-file result set extensions:
// .S0001 (unformatted) and .A0001 (formatted), per spec.md §6.
var numberedExt = regexp.MustCompile(`^\.([SA])(\d+)$`)

// IsFormatted infers whether path names a formatted (ASCII) file from its
// extension. Numbered result files use 'S' for unformatted and 'A' for
// formatted; every other recognized family uses a leading 'F' to mark
// formatted variants.
func IsFormatted(path string) bool {
	ext := strings.ToUpper(filepath.Ext(path))
	if m := numberedExt.FindStringSubmatch(ext); m != nil {
		return m[1] == "A"
	}
	return formattedExtensions[ext]
}
