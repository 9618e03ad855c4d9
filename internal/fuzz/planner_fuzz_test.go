package fuzztests

import (
	"bytes"
	"testing"

	"incfix/internal/directive"
	"incfix/internal/plan"
	"incfix/internal/source"
	"incfix/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func fuzzFile(input []byte) *source.File {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("fuzz.cc", append([]byte(nil), input...)))
}

func rendered(p *plan.Plan) []byte {
	return bytes.Join(p.Segments(), nil)
}

func FuzzInsert(f *testing.F) {
	addCorpusSeeds(f, "d.h")
	f.Add([]byte("#include <a.h>\n"), "<vector>")
	f.Fuzz(func(t *testing.T, input []byte, name string) {
		target, err := directive.ParseTarget(name)
		if err != nil {
			return
		}
		file := fuzzFile(input)
		p := plan.Insert(file, target)
		if err := testkit.CheckPlanInvariants(p); err != nil {
			t.Fatalf("insert %s: %v", target, err)
		}
		if !p.Changes() {
			return
		}

		// вторая вставка в результат обязана быть no-op
		again := plan.Insert(fuzzFile(rendered(p)), target)
		if again.Changes() {
			t.Fatalf("insert %s is not idempotent: %s", target, again.Describe())
		}
	})
}

func FuzzMoveToFront(f *testing.F) {
	addCorpusSeeds(f, "own.h")
	f.Add([]byte("#include <a.h>\n#include \"own.h\""), "own.h")
	f.Fuzz(func(t *testing.T, input []byte, name string) {
		target, err := directive.ParseTarget(name)
		if err != nil {
			return
		}
		file := fuzzFile(input)
		p := plan.MoveToFront(file, target)
		if err := testkit.CheckPlanInvariants(p); err != nil {
			t.Fatalf("front %s: %v", target, err)
		}
		if !p.Changes() {
			return
		}

		again := plan.MoveToFront(fuzzFile(rendered(p)), target)
		if again.Changes() || again.Reason != plan.ReasonAlreadyFirst {
			t.Fatalf("front %s is not stable: %s", target, again.Describe())
		}
	})
}
