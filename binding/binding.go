package binding

import (
	"maps"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

var exprPattern = regexp.MustCompile(`\{\$([^{}]+)\}`)

// Variables 是脚本变量表：名称到字符串值。
type Variables map[string]string

// New 创建空变量表。
func New() Variables { return Variables{} }

// Set 写入一个变量，已存在的同名变量会被覆盖。
func (v Variables) Set(name, value string) {
	v[strings.TrimSpace(name)] = value
}

// Merge 把 other 中的变量合并进来，同名时以 other 为准。
func (v Variables) Merge(other map[string]string) {
	maps.Copy(v, other)
}

// MergeValues 合并 HTTP 查询或表单参数，每个键取第一个值。
func (v Variables) MergeValues(values url.Values, skip ...string) {
	for key, vals := range values {
		if len(vals) == 0 || slices.Contains(skip, key) {
			continue
		}
		v[key] = vals[0]
	}
}

// ParseAssignments 解析 "k=v" 形式的字符串（命令行 -var 参数）。
func (v Variables) ParseAssignments(pairs []string) error {
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return &AssignmentError{Pair: pair}
		}
		v.Set(name, value)
	}
	return nil
}

// AssignmentError reports a malformed k=v pair.
type AssignmentError struct {
	Pair string
}

func (e *AssignmentError) Error() string {
	return "变量格式应为 name=value: " + e.Pair
}

// Interpolate 将文本中的 {$name} 替换为变量值。
// 未定义的变量保留原占位符。
func (v Variables) Interpolate(text string) string {
	if len(v) == 0 || !strings.Contains(text, "{$") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		name := strings.TrimSpace(groups[1])
		if name == "" {
			return match
		}
		if val, ok := v[name]; ok {
			return val
		}
		return match
	})
}

// Names returns the sorted variable names; used for logging.
func (v Variables) Names() []string {
	return slices.Sorted(maps.Keys(v))
}
