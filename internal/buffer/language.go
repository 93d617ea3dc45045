package buffer

import (
	"path/filepath"
	"strings"

	"github.com/mobidic/webide/pkg/types"
)

// languageByExt maps file extensions to execution languages.
var languageByExt = map[string]types.Language{
	".py":   types.LangPython,
	".java": types.LangJava,
}

// LanguageForFilename infers the execution language from a file name's
// extension. The second return value is false for unrecognized extensions.
func LanguageForFilename(name string) (types.Language, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	lang, ok := languageByExt[ext]
	return lang, ok
}
