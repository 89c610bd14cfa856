package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// languageSeeds покрывают оба режима лексера и все нетерминалы.
var languageSeeds = []string{
	"",
	"if (true) {\n    print(\"true is true\");\n};",
	"let mutable x = -a * (b + 0d1_000) % 3;",
	"x = f(1, \"a\\{g(2)}b\")?;",
	"items.each { |it, i| print(\"\\{i}: \\{it}\\n\") }",
	"/// doc\n//// not doc\n/** doc */ /*** not doc */ /**/",
	"\"\\u{1F600}\\u{}\\u{110000}\\q\\r\\t\\\\\\\"\"",
	"\"\\{ \"\\{ \"inner\" }\" }\"",
	"} } { \"\\{ }",
	"a == b != c <= d >= e && f || !g",
	"日本語 = \"текст\"; ∑ × ÷",
	"\x00\xff\xc3",
	"/* unterminated",
	"\"unterminated \\{ x",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.nafi файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".nafi" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
