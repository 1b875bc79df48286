package dsl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/montage/dsl"
	"github.com/ByLCY/montage/layout"
)

const sampleScript = `# 示例脚本
template="800x600", bg=lightgray

title="Hello, {$name}"
image="photos/a.jpg", bbox="0 0 50% 50%", align=left, opacity=60
text="Say \"hi\"", x=10%, y=20mm, font=Open Sans, fontsize=24
poly="10 10 100 10 50 80", fill=#ff0000, thickness=3,
output="out.png"
`

func TestParseScript(t *testing.T) {
	lines, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(lines) != 6 {
		t.Fatalf("expected 6 directives, got %d", len(lines))
	}

	wantKeywords := []string{"template", "title", "image", "text", "poly", "output"}
	wantNumbers := []int{2, 4, 5, 6, 7, 8}
	for i, line := range lines {
		if line.Keyword != wantKeywords[i] {
			t.Fatalf("line %d: expected keyword %s, got %s", i, wantKeywords[i], line.Keyword)
		}
		if line.Number != wantNumbers[i] {
			t.Fatalf("%s: expected line number %d, got %d", line.Keyword, wantNumbers[i], line.Number)
		}
	}

	template := lines[0]
	if string(template.Primary) != "800x600" {
		t.Fatalf("unexpected template primary: %q", template.Primary)
	}
	if len(template.Options) != 1 || template.Options[0].Key != "bg" || template.Options[0].Value.String() != "lightgray" {
		t.Fatalf("unexpected template options: %+v", template.Options)
	}

	if got := string(lines[1].Primary); got != "Hello, {$name}" {
		t.Fatalf("comma inside quotes must stay in the primary, got %q", got)
	}

	image := lines[2]
	if len(image.Options) != 3 {
		t.Fatalf("expected 3 image options, got %d", len(image.Options))
	}
	if got := image.Options[0].Value.String(); got != "0 0 50% 50%" {
		t.Fatalf("unexpected bbox value: %q", got)
	}

	text := lines[3]
	if got := string(text.Primary); got != `Say "hi"` {
		t.Fatalf("escaped quotes not unescaped: %q", got)
	}
	if got := text.Options[2].Value.String(); got != "Open Sans" {
		t.Fatalf("bare words should be joined, got %q", got)
	}

	// 末尾多余的逗号被忽略
	if n := len(lines[4].Options); n != 2 {
		t.Fatalf("expected 2 poly options, got %d", n)
	}
}

func TestParseLineErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"missing equals", `text "hello"`, "缺少 '='"},
		{"missing quote", `text=hello`, `缺少 '"'`},
		{"unterminated quote", `text="hello`, "引号未闭合"},
		{"option without value", `text="hello", x`, ""},
		{"trailing garbage", `text="hello" world`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dsl.ParseLine(12, tc.text)
			if err == nil {
				t.Fatalf("expected error for %q", tc.text)
			}
			if !errors.Is(err, layout.ErrMalformedCommandSyntax) {
				t.Fatalf("expected ErrMalformedCommandSyntax, got %v", err)
			}
			var syntaxErr *dsl.SyntaxError
			if !errors.As(err, &syntaxErr) || syntaxErr.Line != 12 {
				t.Fatalf("expected SyntaxError on line 12, got %v", err)
			}
			if tc.want != "" && !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected message containing %q, got %q", tc.want, err.Error())
			}
		})
	}
}

func TestParseStopsAtFirstError(t *testing.T) {
	_, err := dsl.ParseString("a=\"1\"\n\n# note\nbroken\nb=\"2\"\n")
	var syntaxErr *dsl.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if syntaxErr.Line != 4 {
		t.Fatalf("expected error on line 4, got %d", syntaxErr.Line)
	}
}

func TestSkip(t *testing.T) {
	for _, text := range []string{"", "   ", "\t", "# comment", "   # indented"} {
		if !dsl.Skip(text) {
			t.Fatalf("%q should be skipped", text)
		}
	}
	if dsl.Skip(`text="#1"`) {
		t.Fatalf("directive must not be skipped")
	}
}
