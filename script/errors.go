package script

import "fmt"

// Phase is the interpreter's position in its run.
type Phase int

const (
	PhaseAwaiting Phase = iota
	PhaseExecuting
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaiting:
		return "awaiting"
	case PhaseExecuting:
		return "executing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// LineError 是脚本执行失败时返回的错误，记录出错的行号（从 1 开始）与指令关键字。
type LineError struct {
	Line    int
	Keyword string
	Err     error
}

func (e *LineError) Error() string {
	if e.Keyword == "" {
		return fmt.Sprintf("第 %d 行: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("第 %d 行 (%s): %v", e.Line, e.Keyword, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
