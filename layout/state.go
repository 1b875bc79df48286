package layout

// 布局状态在一次脚本执行内跨指令保存；每次执行各自持有一个实例。

// 默认值。
const (
	DefaultLineSpacing = 1.45
	DefaultOpacity     = 100.0
	// defaultFontSizePercent 是默认字号占文档高度的百分比。
	defaultFontSizePercent = 2.0
)

// TextCursor 是文本指令的持久状态，除 MaxWidth 外都会一直保留到被显式覆盖。
type TextCursor struct {
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Align       TextAlign    `json:"align"`
	Font        FontResource `json:"font"`
	Size        float64      `json:"size"`
	Color       Color        `json:"color"`
	MaxWidth    float64      `json:"maxWidth"`
	LineSpacing float64      `json:"lineSpacing"`
}

// State 保存当前文档尺寸、包围盒、文本光标以及单条指令内有效的临时字段。
type State struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	DPI    float64    `json:"dpi"`
	Box    Box        `json:"box"`
	Cursor TextCursor `json:"cursor"`

	// 以下字段在每条指令开始前由 ResetTransient 复位。
	BoxAlign Align   `json:"-"`
	Opacity  float64 `json:"-"`
	Border   *Color  `json:"-"`

	defaultFont FontResource
}

// NewState 为指定尺寸的文档创建布局状态。
func NewState(width, height, dpi float64, font FontResource) *State {
	s := &State{defaultFont: font}
	s.Reset(width, height, dpi)
	return s
}

// Reset 将全部状态恢复为新文档的默认值：包围盒覆盖整个文档，光标位于中心。
func (s *State) Reset(width, height, dpi float64) {
	s.Width, s.Height, s.DPI = width, height, dpi
	s.Box = Box{X0: 0, Y0: 0, X1: width, Y1: height}
	s.Cursor = TextCursor{
		X:           width / 2,
		Y:           height / 2,
		Align:       TextCenter,
		Font:        s.defaultFont,
		Size:        height * defaultFontSizePercent / 100,
		Color:       Black,
		MaxWidth:    Unconstrained,
		LineSpacing: DefaultLineSpacing,
	}
	s.ResetTransient()
}

// ResetTransient 复位只在单条指令内有效的字段，避免状态泄漏到无关的指令。
func (s *State) ResetTransient() {
	s.BoxAlign = AlignCenter
	s.Opacity = DefaultOpacity
	s.Border = nil
	s.Cursor.MaxWidth = Unconstrained
}

// Horizontal 以文档宽度为参照解析尺寸。
func (s *State) Horizontal(token string) (float64, error) {
	return Resolve(token, Along(s.Width), s.DPI)
}

// Vertical 以文档高度为参照解析尺寸。
func (s *State) Vertical(token string) (float64, error) {
	return Resolve(token, Along(s.Height), s.DPI)
}

// Advance 在放置一张宽 w、高 h 的图片后移动包围盒：先向右平移 w，
// 若右边界超出文档宽度则换行到 x=0 并下移 h。
// 换行判断使用的是文档宽度而不是包围盒宽度，与既有脚本的行为保持一致。
func (s *State) Advance(w, h float64) {
	s.Box.X0 += w
	s.Box.X1 += w
	if s.Box.X1 > s.Width {
		s.Box.X0 = 0
		s.Box.X1 = w
		s.Box.Y0 += h
		s.Box.Y1 += h
	}
}

// NextLine 按行距与实际字号下移文本光标。
func (s *State) NextLine(size float64) {
	s.Cursor.Y += s.Cursor.LineSpacing * size
}
