package layout

// Typesetter 负责测量给定字体与字号下文本的宽度（像素），由渲染后端实现。
type Typesetter interface {
	TextWidth(font FontResource, size float64, text string) (float64, error)
}
