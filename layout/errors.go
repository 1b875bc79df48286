package layout

import "errors"

// 脚本执行过程中的错误分类。所有错误都是致命的：解释器在出错行停止并向调用方报告行号。
// 调用方使用 errors.Is 区分类别。
var (
	ErrUnresolvedReference     = errors.New("百分比缺少参照长度")
	ErrInvalidMeasurement      = errors.New("无法解析的尺寸")
	ErrUnknownColor            = errors.New("未知颜色")
	ErrInvalidAlignment        = errors.New("无效的对齐方式")
	ErrOddCoordinateCount      = errors.New("坐标数量为奇数")
	ErrDegeneratePolygon       = errors.New("多边形至少需要三个顶点")
	ErrUnknownDirective        = errors.New("未知指令")
	ErrUnknownOption           = errors.New("未知选项")
	ErrMissingFile             = errors.New("文件不存在")
	ErrUnsupportedImageFormat  = errors.New("不支持的图片格式")
	ErrUnsupportedOutputFormat = errors.New("不支持的输出格式")
	ErrMalformedCommandSyntax  = errors.New("指令语法错误")
)
