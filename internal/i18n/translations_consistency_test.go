package i18n

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/iamwavecut/verifybot/resources"
)

var formatVerb = regexp.MustCompile(`%[dsvq]`)

func TestTranslationsKeysAreUsedAndComplete(t *testing.T) {
	t.Parallel()

	used, err := collectUsedI18nKeys()
	if err != nil {
		t.Fatalf("collect used i18n keys: %v", err)
	}
	if len(used) == 0 {
		t.Fatalf("no i18n keys found in sources")
	}

	for _, lang := range GetLanguagesList()[1:] {
		defined, err := collectDefinedI18nKeys(lang)
		if err != nil {
			t.Fatalf("collect %s keys: %v", lang, err)
		}

		if missing := difference(used, defined); len(missing) > 0 {
			t.Fatalf("missing %s translation keys:\n%s", lang, strings.Join(missing, "\n"))
		}
		if unused := difference(defined, used); len(unused) > 0 {
			t.Fatalf("unused %s translation keys:\n%s", lang, strings.Join(unused, "\n"))
		}
	}
}

func TestTranslationsKeepFormatVerbs(t *testing.T) {
	t.Parallel()

	for _, lang := range GetLanguagesList()[1:] {
		dict, err := loadTranslationsDict(lang)
		if err != nil {
			t.Fatalf("load %s: %v", lang, err)
		}
		for key, value := range dict {
			if strings.TrimSpace(value) == "" {
				t.Fatalf("empty %s translation for key %q", lang, key)
			}
			want := formatVerb.FindAllString(key, -1)
			got := formatVerb.FindAllString(value, -1)
			if strings.Join(want, "") != strings.Join(got, "") {
				t.Fatalf("%s translation of %q has verbs %v, want %v", lang, key, got, want)
			}
		}
	}
}

func TestGetFallsBackToKey(t *testing.T) {
	t.Parallel()

	if got := Get("Refresh", "en"); got != "Refresh" {
		t.Fatalf("english should return the key, got %q", got)
	}
	if got := Get("Refresh", ""); got != "Refresh" {
		t.Fatalf("empty language should return the key, got %q", got)
	}
	if got := Get("Refresh", "ru"); got == "Refresh" || got == "" {
		t.Fatalf("expected russian translation, got %q", got)
	}
	if got := Get("no such key", "ru"); got != "no such key" {
		t.Fatalf("missing key should fall back, got %q", got)
	}
	if got := Get("Refresh", "xx"); got != "Refresh" {
		t.Fatalf("unknown language should fall back, got %q", got)
	}
}

func TestLanguagesList(t *testing.T) {
	t.Parallel()

	languages := GetLanguagesList()
	if len(languages) < 2 || languages[0] != "en" {
		t.Fatalf("unexpected languages: %v", languages)
	}
	if !IsSupported("ru") || IsSupported("xx") {
		t.Fatalf("unexpected support flags for %v", languages)
	}
}

func collectUsedI18nKeys() ([]string, error) {
	root, err := repoRoot()
	if err != nil {
		return nil, err
	}

	internalDir := filepath.Join(root, "internal")
	fileSet := token.NewFileSet()
	keys := make(map[string]struct{})

	err = filepath.WalkDir(internalDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		node, err := parser.ParseFile(fileSet, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return err
		}

		ast.Inspect(node, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			selector, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || selector.Sel == nil || selector.Sel.Name != "Get" {
				return true
			}
			pkgIdent, ok := selector.X.(*ast.Ident)
			if !ok || pkgIdent.Name != "i18n" {
				return true
			}
			if len(call.Args) < 1 {
				return true
			}
			value, ok := stringLiteralValue(call.Args[0])
			if !ok || value == "" {
				return true
			}
			keys[value] = struct{}{}
			return true
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(keys))
	for key := range keys {
		result = append(result, key)
	}
	sort.Strings(result)
	return result, nil
}

func collectDefinedI18nKeys(lang string) ([]string, error) {
	dict, err := loadTranslationsDict(lang)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(dict))
	for key := range dict {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func loadTranslationsDict(lang string) (map[string]string, error) {
	content, err := resources.FS.ReadFile(fmt.Sprintf("%s/%s.yml", resourcesPath, lang))
	if err != nil {
		return nil, err
	}
	dict := map[string]string{}
	if err := yaml.Unmarshal(content, &dict); err != nil {
		return nil, err
	}
	return dict, nil
}

func difference(left, right []string) []string {
	rightSet := make(map[string]struct{}, len(right))
	for _, item := range right {
		rightSet[item] = struct{}{}
	}
	diff := make([]string, 0)
	for _, item := range left {
		if _, ok := rightSet[item]; !ok {
			diff = append(diff, item)
		}
	}
	return diff
}

func stringLiteralValue(expr ast.Expr) (string, bool) {
	basic, ok := expr.(*ast.BasicLit)
	if !ok || basic.Kind != token.STRING {
		return "", false
	}
	value, err := strconv.Unquote(basic.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

func repoRoot() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("runtime caller is unavailable")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(currentFile), "..", "..")), nil
}
