// Package script runs composition scripts: it reads one directive per line, keeps the
// layout state of the run and draws onto the run's own document.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ByLCY/montage/binding"
	"github.com/ByLCY/montage/dsl"
	"github.com/ByLCY/montage/fonts"
	"github.com/ByLCY/montage/layout"
	"github.com/ByLCY/montage/raster"
	"github.com/ByLCY/montage/renderer"
)

// 首个 template 之前使用的文档参数。
const (
	DefaultWidth  = 1920
	DefaultHeight = 1200
	DefaultDPI    = 300.0
)

// DefaultMaxPixels 限制 template 创建或载入的文档像素数（约 200MB RGBA）。
const DefaultMaxPixels = 50_000_000

// Options configures a run. Renderer is required; everything else has a default.
type Options struct {
	// BaseDir 是脚本中相对路径（图片、模板、输出）的根目录。
	BaseDir string
	// Confine 为 true 时拒绝访问 BaseDir 之外的文件。
	Confine bool
	// FontDir 是 font= 递归查找字体文件的目录。
	FontDir string

	Renderer renderer.Renderer
	// Emitter 处理 output 指令；为空时写入 BaseDir 下的文件。
	Emitter Emitter
	// Variables 是执行前合并进变量表的外部变量（命令行或请求参数）。
	Variables map[string]string

	Width  int
	Height int
	DPI    float64
	// JPEGQuality 为 nil 时使用 raster.DefaultJPEGQuality；0 是合法的最低质量。
	JPEGQuality *int
	// MaxPixels 是单个文档允许的最大像素数，<= 0 时使用 DefaultMaxPixels。
	MaxPixels int

	Logger *slog.Logger
}

// Result describes a finished run. Document is the live document, also when the
// script ended without `output`.
type Result struct {
	Document *raster.Document
	State    *layout.State
	Phase    Phase
	// Output 是 output 指令给出的文件名；未执行 output 时为空。
	Output string
	Format raster.Format
	// Commands 是成功执行的指令数。
	Commands int
}

var errStop = errors.New("stop")

// Run interprets the script read from r. It stops at the first failing line and returns a
// *LineError wrapping one of the layout sentinel errors; nothing is emitted in that case.
// A run ends at `output` or at the end of input.
func Run(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	in, err := newInterpreter(opts)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	err = dsl.Scan(r, func(lineNo int, text string) error {
		if err := ctx.Err(); err != nil {
			return &LineError{Line: lineNo, Err: err}
		}
		if err := in.step(ctx, lineNo, text); err != nil {
			return err
		}
		if in.phase == PhaseDone {
			return errStop
		}
		return nil
	})
	result := in.result()
	switch {
	case errors.Is(err, errStop):
	case err != nil:
		in.phase = PhaseFailed
		result.Phase = PhaseFailed
		in.log.Warn("script failed", "error", err, "commands", result.Commands)
		return result, err
	default:
		in.phase = PhaseDone
		result.Phase = PhaseDone
	}
	in.log.Info("script finished",
		"commands", result.Commands,
		"output", result.Output,
		"elapsed", time.Since(started))
	return result, nil
}

// Check parses and decodes every line without rendering anything.
func Check(r io.Reader) error {
	vars := binding.New()
	return dsl.Scan(r, func(lineNo int, text string) error {
		line, err := dsl.ParseLine(lineNo, text)
		if err != nil {
			return &LineError{Line: lineNo, Err: err}
		}
		cmd, err := Decode(line, vars)
		if err != nil {
			return &LineError{Line: lineNo, Keyword: line.Keyword, Err: err}
		}
		if a, ok := cmd.(*AssignCommand); ok {
			vars.Set(a.Name, a.Value)
		}
		return nil
	})
}

type interpreter struct {
	opts  Options
	log   *slog.Logger
	vars  binding.Variables
	doc   *raster.Document
	state *layout.State
	phase Phase

	executed int
	output   string
	format   raster.Format
}

func newInterpreter(opts Options) (*interpreter, error) {
	if opts.Renderer == nil {
		return nil, errors.New("script: 缺少 Renderer")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	quality := raster.DefaultJPEGQuality
	if opts.JPEGQuality != nil {
		quality = *opts.JPEGQuality
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	if opts.Emitter == nil {
		opts.Emitter = FileEmitter{Dir: opts.BaseDir, Quality: quality}
	}
	log := opts.Logger
	if log == nil {
		log = newNopLogger()
	}

	vars := binding.New()
	vars.Merge(opts.Variables)

	return &interpreter{
		opts:  opts,
		log:   log,
		vars:  vars,
		doc:   raster.New(opts.Width, opts.Height, opts.DPI, layout.White),
		state: layout.NewState(float64(opts.Width), float64(opts.Height), opts.DPI, fonts.Default),
		phase: PhaseAwaiting,
	}, nil
}

func (in *interpreter) result() *Result {
	return &Result{
		Document: in.doc,
		State:    in.state,
		Phase:    in.phase,
		Output:   in.output,
		Format:   in.format,
		Commands: in.executed,
	}
}

// step executes one directive line.
func (in *interpreter) step(ctx context.Context, lineNo int, text string) error {
	in.phase = PhaseExecuting
	in.state.ResetTransient()

	line, err := dsl.ParseLine(lineNo, text)
	if err != nil {
		return &LineError{Line: lineNo, Err: err}
	}
	cmd, err := Decode(line, in.vars)
	if err != nil {
		return &LineError{Line: lineNo, Keyword: line.Keyword, Err: err}
	}
	if err := in.execute(ctx, cmd); err != nil {
		return &LineError{Line: lineNo, Keyword: line.Keyword, Err: err}
	}
	in.executed++
	in.log.Debug("command executed", "line", lineNo, "keyword", line.Keyword)
	if in.phase == PhaseExecuting {
		in.phase = PhaseAwaiting
	}
	return nil
}

func (in *interpreter) execute(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case *TemplateCommand:
		return in.template(c)
	case *ImageCommand:
		return in.image(c)
	case *TextCommand:
		return in.text(c)
	case *PolyCommand:
		return in.poly(c)
	case *OutputCommand:
		return in.emit(ctx, c)
	case *AssignCommand:
		in.vars.Set(c.Name, c.Value)
		return nil
	default:
		return fmt.Errorf("%w: %s", layout.ErrUnknownDirective, cmd.Keyword())
	}
}

func (in *interpreter) template(c *TemplateCommand) error {
	dpi := in.opts.DPI
	if w, h, ok, err := parseDimensions(c.Source, dpi, in.opts.MaxPixels); err != nil {
		return err
	} else if ok {
		in.doc = raster.New(w, h, dpi, layout.White)
	} else {
		path, err := in.path(c.Source)
		if err != nil {
			return err
		}
		img, err := raster.Load(path)
		if err != nil {
			return err
		}
		if b := img.Bounds(); b.Dx()*b.Dy() > in.opts.MaxPixels {
			return fmt.Errorf("%w: 模板 %dx%d 超过像素上限 %d", layout.ErrInvalidMeasurement, b.Dx(), b.Dy(), in.opts.MaxPixels)
		}
		in.doc = raster.FromImage(img, dpi)
	}
	in.state.Reset(float64(in.doc.Width()), float64(in.doc.Height()), dpi)

	if c.Background != nil {
		bg, err := layout.ParseColor(*c.Background)
		if err != nil {
			return err
		}
		in.doc.FloodFill(0, 0, bg)
	}
	return nil
}

// parseDimensions recognises "WxH"; ok is false when s names a file instead.
func parseDimensions(s string, dpi float64, maxPixels int) (w, h int, ok bool, err error) {
	ws, hs, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !found {
		return 0, 0, false, nil
	}
	wm, err := layout.ParseMeasurement(ws)
	if err != nil {
		return 0, 0, false, nil
	}
	hm, err := layout.ParseMeasurement(hs)
	if err != nil {
		return 0, 0, false, nil
	}
	// 新文档没有参照长度，百分比在这里无法解析
	wp, err := wm.Pixels(layout.Extent{}, dpi)
	if err != nil {
		return 0, 0, false, err
	}
	hp, err := hm.Pixels(layout.Extent{}, dpi)
	if err != nil {
		return 0, 0, false, err
	}
	if wp*hp > float64(maxPixels) {
		return 0, 0, false, fmt.Errorf("%w: 文档尺寸 %s 超过像素上限 %d", layout.ErrInvalidMeasurement, s, maxPixels)
	}
	w, h = int(wp+0.5), int(hp+0.5)
	if w <= 0 || h <= 0 {
		return 0, 0, false, fmt.Errorf("%w: 文档尺寸必须为正: %s", layout.ErrInvalidMeasurement, s)
	}
	return w, h, true, nil
}

func (in *interpreter) image(c *ImageCommand) error {
	s := in.state
	if c.Align != nil {
		align, err := layout.ParseAlign(*c.Align)
		if err != nil {
			return err
		}
		s.BoxAlign = align
	}
	if c.Opacity != nil {
		opacity, err := parseNumber(*c.Opacity)
		if err != nil {
			return err
		}
		s.Opacity = opacity
	}
	if c.BBox != nil {
		box, err := in.parseBox(*c.BBox)
		if err != nil {
			return err
		}
		s.Box = box
	}
	if c.Border != nil {
		border, err := layout.ParseColor(*c.Border)
		if err != nil {
			return err
		}
		s.Border = &border
	}
	if s.Box.Width() <= 0 || s.Box.Height() <= 0 {
		return fmt.Errorf("%w: 包围盒为空 (%g,%g)-(%g,%g)", layout.ErrInvalidMeasurement, s.Box.X0, s.Box.Y0, s.Box.X1, s.Box.Y1)
	}

	path, err := in.path(c.Path)
	if err != nil {
		return err
	}
	img, err := raster.Load(path)
	if err != nil {
		return err
	}
	src := raster.ToNRGBA(img)
	b := src.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: 图片为空: %s", layout.ErrUnsupportedImageFormat, c.Path)
	}
	raster.ApplyOpacity(src, s.Opacity)

	box := s.Box
	rect := layout.Place(float64(b.Dx()), float64(b.Dy()), box, s.BoxAlign)
	in.doc.Blit(src, rect)
	if s.Border != nil {
		if err := in.opts.Renderer.DrawBorder(in.doc, box, *s.Border); err != nil {
			return err
		}
	}
	s.Advance(rect.W, rect.H)
	in.log.Debug("image placed", "path", c.Path, "x", rect.X, "y", rect.Y, "w", rect.W, "h", rect.H)
	return nil
}

// parseBox reads "x0 y0 x1 y1"; x values are relative to the document width, y values to its height.
func (in *interpreter) parseBox(value string) (layout.Box, error) {
	fields := splitCoordinates(value)
	if len(fields) != 4 {
		return layout.Box{}, fmt.Errorf("%w: bbox 需要 4 个坐标: %q", layout.ErrInvalidMeasurement, value)
	}
	var v [4]float64
	for i, f := range fields {
		resolve := in.state.Horizontal
		if i%2 == 1 {
			resolve = in.state.Vertical
		}
		px, err := resolve(f)
		if err != nil {
			return layout.Box{}, err
		}
		v[i] = px
	}
	return layout.Box{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}, nil
}

func (in *interpreter) text(c *TextCommand) error {
	cur := &in.state.Cursor
	if c.Align != nil {
		align, err := layout.ParseTextAlign(*c.Align)
		if err != nil {
			return err
		}
		cur.Align = align
	}
	for _, m := range []struct {
		value   *string
		resolve func(string) (float64, error)
		dst     *float64
	}{
		{c.X, in.state.Horizontal, &cur.X},
		{c.Y, in.state.Vertical, &cur.Y},
		{c.FontSize, in.state.Vertical, &cur.Size},
		{c.MaxWidth, in.state.Horizontal, &cur.MaxWidth},
	} {
		if m.value == nil {
			continue
		}
		px, err := m.resolve(*m.value)
		if err != nil {
			return err
		}
		*m.dst = px
	}
	if c.Font != nil {
		font, err := fonts.Discover(in.opts.FontDir, *c.Font)
		if err != nil {
			return err
		}
		cur.Font = font
	}
	if c.Color != nil {
		col, err := layout.ParseColor(*c.Color)
		if err != nil {
			return err
		}
		cur.Color = col
	}
	if c.LineSpacing != nil {
		spacing, err := parseNumber(*c.LineSpacing)
		if err != nil {
			return err
		}
		cur.LineSpacing = spacing
	}

	ts := in.opts.Renderer
	placement, err := layout.Autofit(ts, cur.Font, c.Text, cur.Size, layout.Point{X: cur.X, Y: cur.Y}, cur.Align, cur.MaxWidth)
	if err != nil {
		return err
	}
	origin := layout.Point{X: placement.X, Y: placement.Y}
	if err := in.opts.Renderer.DrawText(in.doc, cur.Font, placement.Size, origin, cur.Color, c.Text); err != nil {
		return err
	}
	in.state.NextLine(placement.Size)
	return nil
}

func (in *interpreter) poly(c *PolyCommand) error {
	fields := splitCoordinates(c.Coordinates)
	if len(fields)%2 != 0 {
		return fmt.Errorf("%w: 共 %d 个坐标", layout.ErrOddCoordinateCount, len(fields))
	}
	points := make([]layout.Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := in.state.Horizontal(fields[i])
		if err != nil {
			return err
		}
		y, err := in.state.Vertical(fields[i+1])
		if err != nil {
			return err
		}
		points = append(points, layout.Point{X: x, Y: y})
	}
	if len(points) < 3 {
		return fmt.Errorf("%w: 只有 %d 个顶点", layout.ErrDegeneratePolygon, len(points))
	}

	border := layout.Black
	poly := layout.Polygon{Points: points, Border: &border, Thickness: 1}
	var err error
	if c.Fill != nil {
		if poly.Fill, err = optionalColor(*c.Fill); err != nil {
			return err
		}
	}
	if c.Border != nil {
		if poly.Border, err = optionalColor(*c.Border); err != nil {
			return err
		}
	}
	if c.Thickness != nil {
		// 线宽没有参照长度，只接受绝对单位
		t, err := layout.Resolve(*c.Thickness, layout.Extent{}, in.state.DPI)
		if err != nil {
			return err
		}
		if t <= 0 {
			return fmt.Errorf("%w: 线宽必须为正: %s", layout.ErrInvalidMeasurement, *c.Thickness)
		}
		poly.Thickness = t
	}
	return in.opts.Renderer.DrawPolygon(in.doc, poly)
}

func (in *interpreter) emit(ctx context.Context, c *OutputCommand) error {
	format, err := raster.FormatFor(c.Path)
	if err != nil {
		return err
	}
	name := c.Path
	if in.opts.Confine {
		if _, err := in.path(name); err != nil {
			return err
		}
	}
	if err := in.opts.Emitter.Emit(ctx, name, format, in.doc); err != nil {
		return err
	}
	in.output, in.format = name, format
	in.phase = PhaseDone
	return nil
}

// path resolves a script path against BaseDir.
func (in *interpreter) path(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("%w: 文件名为空", layout.ErrMissingFile)
	}
	base := in.opts.BaseDir
	if !in.opts.Confine {
		if filepath.IsAbs(p) || base == "" {
			return p, nil
		}
		return filepath.Join(base, p), nil
	}
	if filepath.IsAbs(p) || !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: 不允许访问 %s", layout.ErrMissingFile, p)
	}
	return filepath.Join(base, p), nil
}

// optionalColor parses a colour; "none" disables the corresponding part of a polygon.
func optionalColor(value string) (*layout.Color, error) {
	if strings.EqualFold(strings.TrimSpace(value), "none") {
		return nil, nil
	}
	col, err := layout.ParseColor(value)
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// parseNumber reads a plain number; a trailing % is tolerated for opacity values.
func parseNumber(value string) (float64, error) {
	v := strings.TrimSuffix(strings.TrimSpace(value), "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", layout.ErrInvalidMeasurement, value)
	}
	return f, nil
}

// splitCoordinates splits a coordinate list on whitespace and commas.
func splitCoordinates(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
