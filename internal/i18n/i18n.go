package i18n

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/iamwavecut/verifybot/resources"
)

const (
	defaultLanguage = "en"
	resourcesPath   = "i18n"
)

var state = struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	loaded       map[string]bool
}{
	translations: make(map[string]map[string]string),
	loaded:       make(map[string]bool),
}

func load(lang string) map[string]string {
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.loaded[lang] {
		return state.translations[lang]
	}
	state.loaded[lang] = true

	data, err := resources.FS.ReadFile(path.Join(resourcesPath, fmt.Sprintf("%s.yml", lang)))
	if err != nil {
		log.WithField("error", err.Error()).WithField("lang", lang).Errorln("cant load i18n")
		return nil
	}
	translations := make(map[string]string)
	if err := yaml.Unmarshal(data, &translations); err != nil {
		log.WithField("error", err.Error()).WithField("lang", lang).Errorln("cant unmarshal i18n")
		return nil
	}
	state.translations[lang] = translations
	return translations
}

// Get returns the translation of key, or key itself when there is none.
func Get(key, lang string) string {
	if lang == "" || lang == defaultLanguage {
		return key
	}
	state.mu.RLock()
	translations := state.translations[lang]
	loaded := state.loaded[lang]
	state.mu.RUnlock()
	if !loaded {
		translations = load(lang)
	}
	if res, ok := translations[key]; ok {
		return res
	}
	log.Tracef(`no translation for key "%s"`, key)
	return key
}

// GetLanguagesList returns the default language plus every shipped translation.
func GetLanguagesList() []string {
	languages := []string{defaultLanguage}
	entries, err := resources.FS.ReadDir(resourcesPath)
	if err != nil {
		return languages
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yml") {
			continue
		}
		languages = append(languages, strings.TrimSuffix(name, ".yml"))
	}
	sort.Strings(languages[1:])
	return languages
}

func IsSupported(lang string) bool {
	for _, l := range GetLanguagesList() {
		if l == lang {
			return true
		}
	}
	return false
}
