package xtraceparent

import (
	"testing"
)

// FuzzParse 验证任意输入都不会 panic，且成功结果满足 Record 不变量。
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"d-s-c-s",
		"00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
		"01-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-00-01234-5678",
		"00-00000000000000000000000000000000-0000000000000000-00",
		"ff-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
		"00---",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		r, err := Parse(s)
		if err != nil {
			if KindOf(err) == KindNone {
				t.Fatalf("Parse(%q) returned unclassified error: %v", s, err)
			}
			return
		}
		if !r.IsValid() {
			t.Fatalf("Parse(%q) accepted invalid ids", s)
		}
		if r.Version == 0 && len(r.ExtraFields) != 0 {
			t.Fatalf("Parse(%q) kept extra fields for version 00", s)
		}
		if r.Version != 0 && len(s) < MinLength {
			t.Fatalf("Parse(%q) accepted short non-zero version", s)
		}

		// 重新序列化后的结果必须可再次解析且 ID 不变
		out := Format(r)
		again, err := Parse(out)
		if err != nil {
			t.Fatalf("Parse(Format(%q)) = %v", s, err)
		}
		if again.TraceID != r.TraceID || again.ParentID != r.ParentID || again.Sampled != r.Sampled {
			t.Fatalf("round trip mismatch for %q", s)
		}
	})
}
