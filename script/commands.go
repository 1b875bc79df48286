package script

import (
	"fmt"
	"strings"

	"github.com/ByLCY/montage/binding"
	"github.com/ByLCY/montage/dsl"
	"github.com/ByLCY/montage/layout"
)

// Command is one decoded directive. The set of implementations is closed;
// the interpreter dispatches on it with a type switch.
type Command interface {
	Keyword() string
	command()
}

// 选项值在解码阶段已完成变量替换；为 nil 表示脚本未提供该选项。
// 单位、颜色等的解析依赖当前文档状态，留给执行阶段完成。

// TemplateCommand replaces the document: Source is either "WxH" or an image file.
type TemplateCommand struct {
	Source     string
	Background *string
}

// ImageCommand places an image file into the current bounding box.
type ImageCommand struct {
	Path    string
	Align   *string
	Opacity *string
	BBox    *string
	Border  *string
}

// TextCommand draws a single line of text at the text cursor.
type TextCommand struct {
	Text        string
	Align       *string
	X           *string
	Y           *string
	Font        *string
	FontSize    *string
	Color       *string
	MaxWidth    *string
	LineSpacing *string
}

// PolyCommand draws a polygon; Coordinates alternate horizontal and vertical measurements.
type PolyCommand struct {
	Coordinates string
	Fill        *string
	Border      *string
	Thickness   *string
}

// OutputCommand encodes the document and ends the run.
type OutputCommand struct {
	Path string
}

// AssignCommand stores a script variable.
type AssignCommand struct {
	Name  string
	Value string
}

func (*TemplateCommand) Keyword() string { return "template" }
func (*ImageCommand) Keyword() string    { return "image" }
func (*TextCommand) Keyword() string     { return "text" }
func (*PolyCommand) Keyword() string     { return "poly" }
func (*OutputCommand) Keyword() string   { return "output" }
func (c *AssignCommand) Keyword() string { return c.Name }

func (*TemplateCommand) command() {}
func (*ImageCommand) command()    {}
func (*TextCommand) command()     {}
func (*PolyCommand) command()     {}
func (*OutputCommand) command()   {}
func (*AssignCommand) command()   {}

// Decode turns a parsed line into a command, substituting {$name} variables in the
// primary argument and in every option value.
//
// A keyword outside the known set is a variable assignment when it has no options;
// with options it is an unknown directive.
func Decode(line *dsl.Line, vars binding.Variables) (Command, error) {
	primary := vars.Interpolate(string(line.Primary))
	opts := make([]option, 0, len(line.Options))
	for _, opt := range line.Options {
		opts = append(opts, option{key: strings.TrimSpace(opt.Key), value: vars.Interpolate(opt.Value.String())})
	}

	switch line.Keyword {
	case "template":
		cmd := &TemplateCommand{Source: primary}
		return cmd, bind(opts, line.Keyword, map[string]**string{
			"bg": &cmd.Background,
		})
	case "image":
		cmd := &ImageCommand{Path: primary}
		return cmd, bind(opts, line.Keyword, map[string]**string{
			"align":   &cmd.Align,
			"opacity": &cmd.Opacity,
			"bbox":    &cmd.BBox,
			"border":  &cmd.Border,
		})
	case "text":
		cmd := &TextCommand{Text: primary}
		return cmd, bind(opts, line.Keyword, map[string]**string{
			"align":    &cmd.Align,
			"x":        &cmd.X,
			"y":        &cmd.Y,
			"font":     &cmd.Font,
			"fontsize": &cmd.FontSize,
			"color":    &cmd.Color,
			"maxwidth": &cmd.MaxWidth,
			"linespc":  &cmd.LineSpacing,
		})
	case "poly":
		cmd := &PolyCommand{Coordinates: primary}
		return cmd, bind(opts, line.Keyword, map[string]**string{
			"fill":      &cmd.Fill,
			"border":    &cmd.Border,
			"thickness": &cmd.Thickness,
		})
	case "output":
		cmd := &OutputCommand{Path: primary}
		return cmd, bind(opts, line.Keyword, nil)
	default:
		if len(opts) > 0 {
			return nil, fmt.Errorf("%w: %s", layout.ErrUnknownDirective, line.Keyword)
		}
		return &AssignCommand{Name: line.Keyword, Value: primary}, nil
	}
}

type option struct {
	key   string
	value string
}

// bind 按选项名写入命令字段；后出现的同名选项覆盖先出现的。
func bind(opts []option, keyword string, fields map[string]**string) error {
	for _, opt := range opts {
		field, ok := fields[opt.key]
		if !ok {
			return fmt.Errorf("%w: %s 不支持选项 %s", layout.ErrUnknownOption, keyword, opt.key)
		}
		value := opt.value
		*field = &value
	}
	return nil
}
