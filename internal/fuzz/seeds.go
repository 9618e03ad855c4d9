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

var inlineSeeds = []string{
	"",
	"int main() { return 0; }\n",
	"#include <a.h>\n#include \"b.h\"\n#include \"c.h\"\n",
	"#include \"own.h\"\n\n#include <vector>\n#include \"util.h\" // why\n",
	"// #include \"fake.h\"\n#include <map>",
	"#include MACRO_HEADER\n#include \"x.h\"\n",
	"#include \"a.h\"\r\n#include <b.h>\r\n",
	"\xef\xbb\xbf#include <bom.h>\n",
	"#include <",
}

func addCorpusSeeds(f *testing.F, name string) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s), name)
	}
	addTestdataSeeds(f, name)
}

func addTestdataSeeds(f *testing.F, name string) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все C/C++ исходники
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".c", ".cc", ".cpp", ".h", ".hh":
		default:
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src), name)
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
