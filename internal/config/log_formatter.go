package config

import (
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	colorRed         = 31
	colorGreen       = 32
	colorYellow      = 33
	colorBlue        = 36
	colorGray        = 37
	colorLightGreen  = 92
	colorLightYellow = 93
	colorCyan        = 96
)

// NbFormatter renders entries as colored key=value pairs on a single line.
type NbFormatter struct {
	// Plain drops the ANSI escapes, for log collectors.
	Plain bool
	// WithSource adds the caller position of the log call.
	WithSource bool
}

func (f *NbFormatter) Format(entry *log.Entry) ([]byte, error) {
	b := strings.Builder{}
	b.WriteString(f.pair("level", f.paint(levelColor(entry.Level), strings.ToUpper(entry.Level.String())[:4])))
	b.WriteString(" ")
	b.WriteString(f.pair("ts", f.paint(colorLightYellow, entry.Time.Format("2006-01-02 15:04:05.000"))))

	if f.WithSource {
		if _, file, line, ok := runtime.Caller(6); ok {
			b.WriteString(" ")
			b.WriteString(f.pair("source", f.paint(colorLightYellow, fmt.Sprintf("%s:%d", file, line))))
		}
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s := ""
		if m, err := json.Marshal(entry.Data[k]); err == nil {
			s = string(m)
		}
		if s == "" {
			continue
		}
		valueColor := colorCyan
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			valueColor = colorGreen
		} else if strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\"") {
			valueColor = colorLightYellow
		}
		b.WriteString(" ")
		b.WriteString(f.pair(k, f.paint(valueColor, s)))
	}
	b.WriteString(" ")
	b.WriteString(f.pair("msg", f.paint(colorLightGreen, strconv.Quote(entry.Message))))

	output := strings.ReplaceAll(b.String(), "\r", "\\r")
	output = strings.ReplaceAll(output, "\n", "\\n") + "\n"
	return []byte(output), nil
}

func (f *NbFormatter) pair(key, value string) string {
	return f.paint(colorCyan, key) + "=" + value
}

func (f *NbFormatter) paint(color int, s string) string {
	if f.Plain {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, s)
}

func levelColor(level log.Level) int {
	switch level {
	case log.DebugLevel, log.TraceLevel:
		return colorGray
	case log.WarnLevel:
		return colorYellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		return colorRed
	default:
		return colorBlue
	}
}
