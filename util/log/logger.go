// Package log implements utility methods for logging in a colorful manner.
package log

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

var showPid = false

func init() {
	if os.Getenv("GRASS_LOG_SHOW_PID") != "" {
		showPid = true
	}
}

// FancyLogFormatter is the default logger for grass.
type FancyLogFormatter struct {
	UseColors bool
}

var symbolTable = map[logrus.Level]string{
	logrus.DebugLevel: "⚙",
	logrus.InfoLevel:  "⚐",
	logrus.WarnLevel:  "⚠",
	logrus.ErrorLevel: "⚡",
	logrus.FatalLevel: "☣",
	logrus.PanicLevel: "☠",
}

// The formatter decides on its own when to use colors,
// so the colors do not depend on color.NoColor.
func forcedColor(attr color.Attribute) *color.Color {
	col := color.New(attr)
	col.EnableColor()
	return col
}

var colorTable = map[logrus.Level]*color.Color{
	logrus.DebugLevel: forcedColor(color.FgCyan),
	logrus.InfoLevel:  forcedColor(color.FgGreen),
	logrus.WarnLevel:  forcedColor(color.FgYellow),
	logrus.ErrorLevel: forcedColor(color.FgRed),
	logrus.FatalLevel: forcedColor(color.FgMagenta),
	logrus.PanicLevel: forcedColor(color.FgMagenta),
}

func colorByLevel(level logrus.Level, msg string) string {
	col, ok := colorTable[level]
	if !ok {
		return msg
	}

	return col.Sprint(msg)
}

func formatColored(useColors bool, buffer *bytes.Buffer, msg string, level logrus.Level) {
	if useColors {
		buffer.WriteString(colorByLevel(level, msg))
	} else {
		buffer.WriteString(msg)
	}
}

func formatTimestamp(builder *strings.Builder, t time.Time) {
	fmt.Fprintf(builder, "%02d.%02d.%04d", t.Day(), t.Month(), t.Year())
	builder.WriteByte('/')
	fmt.Fprintf(builder, "%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

func formatFields(useColors bool, buffer *bytes.Buffer, entry *logrus.Entry) {
	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		keys = append(keys, key)
	}

	// Fields should always come in the same order:
	sort.Strings(keys)

	buffer.WriteString(" [")
	for idx, key := range keys {
		// Make the key colored:
		formatColored(useColors, buffer, key, entry.Level)
		buffer.WriteByte('=')
		buffer.WriteString(fmt.Sprintf("%v", entry.Data[key]))

		// Print no space after the last element:
		if idx != len(keys)-1 {
			buffer.WriteByte(' ')
		}
	}

	buffer.WriteByte(']')
}

const logrusPkg = "github.com/sirupsen/logrus."

func findCallers() (string, int, bool) {
	// Skip runtime.Callers, findCallers and Format.
	pcs := make([]uintptr, 25)
	nCallers := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:nCallers])

	seenLogrus := false
	for {
		frame, ok := frames.Next()
		if !ok {
			break
		}

		// The first frame after the logrus API is where the log was done.
		if strings.HasPrefix(frame.Function, logrusPkg) {
			seenLogrus = true
			continue
		}

		if !seenLogrus {
			continue
		}

		// Inside of grass the path relative to the module root is enough.
		grassTag := "grass/"
		grassModIdx := strings.LastIndex(frame.File, grassTag)
		if grassModIdx == -1 {
			return filepath.Base(frame.File), frame.Line, true
		}

		return frame.File[grassModIdx+len(grassTag):], frame.Line, true
	}

	return "", 0, false
}

// Format logs a single entry according to our formatting ideas.
func (flf *FancyLogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	prefixBuilder := strings.Builder{}
	formatTimestamp(&prefixBuilder, entry.Time)
	prefixBuilder.WriteByte(' ')

	// Add the symbol:
	prefixBuilder.WriteString(symbolTable[entry.Level])

	buffer := &bytes.Buffer{}
	formatColored(flf.UseColors, buffer, prefixBuilder.String(), entry.Level)

	if showPid {
		// Useful when several test processes log to the same terminal.
		buffer.WriteString(fmt.Sprintf(" [%d]", os.Getpid()))
	}

	file, line, ok := findCallers()
	if ok {
		buffer.WriteString(fmt.Sprintf(" %s:%d:", file, line))
	}

	buffer.WriteByte(' ')
	buffer.WriteString(entry.Message)

	// Add the fields, if any:
	if len(entry.Data) > 0 {
		formatFields(flf.UseColors, buffer, entry)
	}

	buffer.WriteByte('\n')
	return buffer.Bytes(), nil
}

// ParseLevel converts a level name of the config into a logrus level.
// "warn" and "warning" are both accepted.
func ParseLevel(name string) (logrus.Level, error) {
	return logrus.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
}
