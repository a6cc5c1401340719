package lang

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/samber/lo"
	"goyave.dev/emailvalidator/util/errors"
)

// Languages container for all loaded languages.
//
// This structure is not protected for concurrent usage. Therefore, don't load
// more languages when this instance is expected to receive reads.
type Languages struct {
	languages map[string]*Language
	Default   string
}

// New create a `Languages` with preloaded default language "en-US".
//
// The default language can be replaced by modifying the `Default` field
// in the returned struct.
func New() *Languages {
	l := &Languages{
		languages: make(map[string]*Language, 1),
		Default:   enUS.name,
	}
	l.languages[enUS.name] = enUS.clone()
	return l
}

// LoadDirectory loads every language directory in the given directory of
// the given file system, if it exists.
func (l *Languages) LoadDirectory(fsys fs.FS, directory string) error {
	files, err := fs.ReadDir(fsys, directory)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.New(err)
	}

	for _, f := range files {
		if f.IsDir() {
			if err := l.load(fsys, f.Name(), path.Join(directory, f.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load a language directory.
//
// Directory structure of a language directory:
//
//	fr-FR
//	  ├─ locale.json     (contains the normal language lines)
//	  ├─ rules.json      (contains the validation messages)
//	  └─ fields.json     (contains the field names)
//
// Each file is optional. If the language already exists, the loaded lines
// override the existing ones.
func (l *Languages) Load(fsys fs.FS, language, directory string) error {
	if info, err := fs.Stat(fsys, directory); err != nil || !info.IsDir() {
		return errors.Errorf("failed loading language \"%s\", directory \"%s\" doesn't exist or is not readable", language, directory)
	}
	return l.load(fsys, language, directory)
}

func (l *Languages) load(fsys fs.FS, language string, directory string) error {
	langStruct := &Language{
		name:  language,
		lines: map[string]string{},
		validation: validationLines{
			rules:  map[string]string{},
			fields: map[string]string{},
		},
	}
	if err := readLangFile(fsys, path.Join(directory, "locale.json"), &langStruct.lines); err != nil {
		return err
	}
	if err := readLangFile(fsys, path.Join(directory, "rules.json"), &langStruct.validation.rules); err != nil {
		return err
	}
	if err := readLangFile(fsys, path.Join(directory, "fields.json"), &langStruct.validation.fields); err != nil {
		return err
	}

	if existingLang, exists := l.languages[language]; exists {
		mergeLang(existingLang, langStruct)
	} else {
		l.languages[language] = langStruct
	}
	return nil
}

// GetLanguage returns a language by its name.
// If the language is not available, returns a dummy language
// that will always return the entry name.
func (l *Languages) GetLanguage(language string) *Language {
	if lang, ok := l.languages[language]; ok {
		return lang
	}
	return &Language{
		name:  "dummy",
		lines: map[string]string{},
		validation: validationLines{
			rules:  map[string]string{},
			fields: map[string]string{},
		},
	}
}

// GetDefault is an alias for `l.GetLanguage(l.Default)`
func (l *Languages) GetDefault() *Language {
	return l.GetLanguage(l.Default)
}

// IsAvailable returns true if the language is available.
func (l *Languages) IsAvailable(language string) bool {
	_, exists := l.languages[language]
	return exists
}

// GetAvailableLanguages returns a sorted slice of all loaded languages.
func (l *Languages) GetAvailableLanguages() []string {
	keys := lo.Keys(l.languages)
	slices.Sort(keys)
	return keys
}

// DetectLanguage returns the first available language from the given comma-separated
// list, in order of preference. POSIX locales such as "fr_FR.UTF-8" are accepted.
//
// If no variant is given (for example "fr"), the first available variant in
// alphabetical order is used. If none is available or if "*" is given, the default
// language is returned.
func (l *Languages) DetectLanguage(languages string) *Language {
	for _, candidate := range strings.Split(languages, ",") {
		candidate, _, _ = strings.Cut(strings.TrimSpace(candidate), ";")
		candidate, _, _ = strings.Cut(candidate, ".")
		candidate = strings.ReplaceAll(candidate, "_", "-")
		if candidate == "*" {
			break
		}
		if candidate == "" {
			continue
		}
		if match, ok := l.languages[candidate]; ok {
			return match
		}
		for _, name := range l.GetAvailableLanguages() {
			if strings.HasPrefix(name, candidate+"-") {
				return l.languages[name]
			}
		}
	}

	return l.GetDefault()
}

// Get a language line from the given language.
//
// If the language or the line doesn't exist, returns the exact "line" argument.
// See `Language.Get()` for more details.
func (l *Languages) Get(language string, line string, placeholders ...string) string {
	lang, exists := l.languages[language]
	if !exists {
		return line
	}

	return lang.Get(line, placeholders...)
}

func readLangFile(fsys fs.FS, file string, dest any) error {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.New(err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Errorf("failed to load language file %s: %w", file, err)
	}
	return nil
}

func mergeLang(dst *Language, src *Language) {
	mergeMap(dst.lines, src.lines)
	mergeMap(dst.validation.rules, src.validation.rules)
	mergeMap(dst.validation.fields, src.validation.fields)
}

func mergeMap(dst map[string]string, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
