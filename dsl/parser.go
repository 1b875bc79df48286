package dsl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/montage/layout"
)

// 脚本按行解析，每行形如：
//
//	keyword="primary", opt1=val1, opt2="val 2", ...
//
// 选项值可以是带引号的字符串，也可以是若干以空白分隔的裸词（如 bbox=0 0 50% 50%）。
var (
	lineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Punct", Pattern: `[,=]`},
		{Name: "Bare", Pattern: `[^\s,="]+`},
	})

	lineParser = participle.MustBuild[Line](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace"),
	)
)

// Line is one parsed script directive.
type Line struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Keyword string         `parser:"@Bare '='"`
	Primary Quoted         `parser:"@String"`
	Options []*Option      `parser:"( ',' @@? )*"`

	// Number 是源文件中的行号，从 1 开始。
	Number int
}

// Option is a key=value pair following the primary argument.
type Option struct {
	Key   string `parser:"@Bare '='"`
	Value Value  `parser:"@@"`
}

// Value 是选项值：带引号的字符串或一组裸词。
type Value struct {
	Quoted *Quoted  `parser:"  @String"`
	Words  []string `parser:"| @Bare+"`
}

// String returns the option value text; bare words are joined by single spaces.
func (v Value) String() string {
	if v.Quoted != nil {
		return string(*v.Quoted)
	}
	return strings.Join(v.Words, " ")
}

// Quoted is a double-quoted string; a backslash makes the following character literal.
type Quoted string

// Capture implements participle.Capture.
func (q *Quoted) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	raw := values[0]
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return fmt.Errorf("缺少引号: %s", raw)
	}
	body := raw[1 : len(raw)-1]
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		b.WriteByte(body[i])
	}
	*q = Quoted(b.String())
	return nil
}

// SyntaxError reports a line that does not follow the directive grammar.
type SyntaxError struct {
	Line int
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("第 %d 行语法错误: %v", e.Line, e.Err)
}

// Unwrap exposes the underlying parser error.
func (e *SyntaxError) Unwrap() error { return e.Err }

// Is lets callers match any syntax error with layout.ErrMalformedCommandSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == layout.ErrMalformedCommandSyntax
}

// ParseLine parses a single directive. lineNo is only used for error reporting.
func ParseLine(lineNo int, text string) (*Line, error) {
	line, err := lineParser.ParseString("", text)
	if err != nil {
		return nil, &SyntaxError{Line: lineNo, Text: text, Err: describe(text, err)}
	}
	line.Number = lineNo
	return line, nil
}

// describe 把最常见的两类错误（缺少 '=' 与缺少引号）翻译成更直接的提示。
func describe(text string, err error) error {
	switch {
	case !strings.Contains(text, "="):
		return errors.New("缺少 '='")
	case !strings.Contains(text, `"`):
		return errors.New(`缺少 '"'`)
	case (strings.Count(text, `"`)-strings.Count(text, `\"`))%2 != 0:
		return errors.New(`引号未闭合`)
	}
	return err
}

// Skip reports whether a raw line carries no directive (blank or a # comment).
func Skip(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// Parse reads a whole script, skipping blank and comment lines.
// Parsing stops at the first malformed line.
func Parse(r io.Reader) ([]*Line, error) {
	var lines []*Line
	err := Scan(r, func(lineNo int, text string) error {
		line, err := ParseLine(lineNo, text)
		if err != nil {
			return err
		}
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// ParseString parses a script held in memory.
func ParseString(input string) ([]*Line, error) {
	return Parse(strings.NewReader(input))
}

// Scan calls fn for every directive line of r with its 1-based line number.
// Blank and comment lines are skipped but still counted.
func Scan(r io.Reader, fn func(lineNo int, text string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if Skip(text) {
			continue
		}
		if err := fn(lineNo, text); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("读取脚本失败: %w", err)
	}
	return nil
}
