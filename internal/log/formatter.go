package log

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	timeLayout     = "2006-01-02 15:04:05.000"
	defaultPattern = "%time [%level] %msg%field\n"
)

// formatter renders entries from a pattern with the placeholders %time,
// %level, %msg and %field.
type formatter struct {
	pattern string
	time    string
}

func defaultTextFormatter() *formatter {
	return &formatter{pattern: defaultPattern, time: timeLayout}
}

func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	r := strings.NewReplacer(
		"%time", entry.Time.Format(f.time),
		"%level", strings.ToUpper(entry.Level.String()),
		"%msg", entry.Message,
		"%field", buildFields(entry),
	)
	return []byte(r.Replace(f.pattern)), nil
}

// buildFields renders " k=v k=v" in key order, or "" without fields.
func buildFields(entry *logrus.Entry) string {
	if len(entry.Data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		val := entry.Data[k]
		if err, ok := val.(error); ok {
			val = err.Error()
		}
		fmt.Fprintf(&b, " %s=%v", k, val)
	}
	return b.String()
}
