package fuzztests

import (
	"os"
	"path/filepath"
	"testing"

	"packfmt/internal/driver"
	"packfmt/internal/pack"
)

const maxSeedBytes = 4 << 10

// modifier tails tried after every known letter.
var seedTails = []string{"", "*", "3", "!", "_", "<", ">", "!<", "<!", "<>", "!>*", "18446744073709551616"}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addTableSeeds(f)
	for _, s := range []string{"", "   ", "#remark\n", "C #x\nS", "\xc3", "y", "%"} {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	files, err := driver.ListTemplates([]string{filepath.Join("..", "..", "testdata")})
	if err != nil {
		return
	}
	for _, path := range files {
		// #nosec G304 -- path comes from the repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.Add(src[:min(len(src), maxSeedBytes)])
	}
}

// addTableSeeds seeds one template per letter and modifier tail, so every
// table entry reaches each modifier branch of the resolver.
func addTableSeeds(f *testing.F) {
	entries, err := pack.Table(pack.Version3_2_0, pack.VariantPack)
	if err != nil {
		return
	}
	for _, e := range entries {
		for _, tail := range seedTails {
			f.Add([]byte(string(rune(e.Letter)) + tail))
		}
	}
}
