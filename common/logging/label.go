package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ttacon/chalk"
)

// labelMap are log labels attached to each entry.
type labelMap map[string]string

// LabelTag Enumeration of Label.
const (
	LabelTag = "tag"
)

const (
	labelProcessID   = "pid"
	labelGoroutineID = "go_id"
	labelFuncName    = "func_name"
	labelFileName    = "file_name"
	labelLineNumber  = "line_number"
)

var (
	plainStyle    = chalk.ResetColor.NewStyle()
	funcNameStyle = chalk.Cyan.NewStyle()
	fileStyle     = chalk.Magenta.NewStyle()
	lineStyle     = chalk.Yellow.NewStyle()
)

func (l *labelMap) addDebugInfo(numStackFrame int) {
	(*l)[labelProcessID] = fmt.Sprintf("%d", os.Getpid())

	buffer := make([]byte, 64)
	buffer = buffer[:runtime.Stack(buffer, false)]
	bufList := bytes.Fields(buffer)
	goroutineID := "-1"
	if len(bufList) >= 2 {
		goroutineID = string(bufList[1])
	}
	(*l)[labelGoroutineID] = goroutineID

	funcName := "???"
	pc, file, line, ok := runtime.Caller(numStackFrame)
	if !ok {
		file = "???"
		line = -1
	} else {
		funcName = runtime.FuncForPC(pc).Name()
		file = filepath.Base(file)
	}
	(*l)[labelFuncName] = funcName + "()"
	(*l)[labelFileName] = file
	(*l)[labelLineNumber] = fmt.Sprintf("%d", line)
}

func (l *labelMap) debugInfo(styled bool) string {
	if !styled {
		return fmt.Sprintf(
			"PID_%s:GoID_%s:%s:%s:%s",
			(*l)[labelProcessID],
			(*l)[labelGoroutineID],
			(*l)[labelFuncName],
			(*l)[labelFileName],
			(*l)[labelLineNumber],
		)
	}
	return fmt.Sprintf(
		"%s%s:%s%s:%s:%s:%s",
		plainStyle.Style("PID_"),
		plainStyle.Style((*l)[labelProcessID]),
		plainStyle.Style("GoID_"),
		plainStyle.Style((*l)[labelGoroutineID]),
		funcNameStyle.Style((*l)[labelFuncName]),
		fileStyle.Style((*l)[labelFileName]),
		lineStyle.Style((*l)[labelLineNumber]),
	)
}
