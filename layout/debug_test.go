package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDebugJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	state := NewState(400, 200, 300, FontResource{Name: "goregular", Src: "builtin:goregular"})
	state.Advance(300, 100)
	if err := WriteDebugJSON(state, path); err != nil {
		t.Fatalf("WriteDebugJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Box    Box `json:"box"`
		Cursor struct {
			Font FontResource `json:"font"`
		} `json:"cursor"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Box != (Box{X0: 0, Y0: 100, X1: 300, Y1: 300}) {
		t.Fatalf("unexpected box: %+v", got.Box)
	}
	if got.Cursor.Font.Name != "goregular" {
		t.Fatalf("unexpected font: %+v", got.Cursor.Font)
	}
	if err := WriteDebugJSON(nil, path); err != nil {
		t.Fatalf("nil state should be ignored: %v", err)
	}
}
