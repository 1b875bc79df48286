package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将执行结束时的布局状态输出为 JSON，便于排查包围盒与光标位置。
func WriteDebugJSON(state *State, path string) error {
	if state == nil {
		return nil
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
