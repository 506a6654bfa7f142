package diag

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// commentFormatter renders every entry as a SOL comment line: "c "
// followed by the message, newline-terminated, with no logrus
// timestamp/level decoration.
type commentFormatter struct{}

func (f *commentFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("c %s\n", entry.Message)), nil
}

// warningFormatter renders every entry as "Warning: <message>".
type warningFormatter struct{}

func (f *warningFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("Warning: %s\n", entry.Message)), nil
}
