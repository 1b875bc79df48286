// Package fonts 提供内置字体以及按名称在字体目录中查找字体文件。
package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/montage/layout"
)

// BuiltinPrefix marks a font source that is compiled into the binary.
const BuiltinPrefix = "builtin:"

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"goitalic":  goitalic.TTF,
	"gomono":    gomono.TTF,
}

// Default 是未指定字体时使用的字体。
var Default = layout.FontResource{Name: "goregular", Src: BuiltinPrefix + "goregular"}

// Load 返回字体的字节数据，src 可写为 "builtin:goregular" 或文件路径。
func Load(src string) ([]byte, error) {
	if name, ok := strings.CutPrefix(src, BuiltinPrefix); ok {
		data, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("%w: 内置字体 %s", layout.ErrMissingFile, name)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: 字体 %s", layout.ErrMissingFile, src)
		}
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// Discover 在 root 下递归查找名为 name 的 TTF/OTF 字体（文件名不区分大小写）。
// 找不到时回退到同名的内置字体。
func Discover(root, name string) (layout.FontResource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return layout.FontResource{}, fmt.Errorf("%w: 字体名为空", layout.ErrMissingFile)
	}
	if root != "" {
		if path, err := find(root, name); err != nil {
			return layout.FontResource{}, err
		} else if path != "" {
			return layout.FontResource{Name: name, Src: path}, nil
		}
	}
	key := strings.ToLower(name)
	if _, ok := builtin[key]; ok {
		return layout.FontResource{Name: key, Src: BuiltinPrefix + key}, nil
	}
	return layout.FontResource{}, fmt.Errorf("%w: 找不到字体 %s", layout.ErrMissingFile, name)
}

var errFound = errors.New("found")

func find(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// 不可读的子目录直接跳过
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		base := d.Name()
		ext := strings.ToLower(filepath.Ext(base))
		if ext != ".ttf" && ext != ".otf" {
			return nil
		}
		if strings.EqualFold(strings.TrimSuffix(base, filepath.Ext(base)), name) {
			found = path
			return errFound
		}
		return nil
	})
	switch {
	case errors.Is(err, errFound):
		return found, nil
	case errors.Is(err, fs.ErrNotExist):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("扫描字体目录 %s 失败: %w", root, err)
	}
	return "", nil
}

// Builtins returns the names of the compiled-in fonts.
func Builtins() []string {
	return []string{"goregular", "gobold", "goitalic", "gomono"}
}
