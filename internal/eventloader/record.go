package eventloader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Field positions of a raw export line.
const (
	fieldEmail = iota
	fieldSentDate
	fieldActivityDate
	fieldCampaign
	fieldAction
	fieldActionKind
	fieldActionType
	fieldDescription
	fieldTag

	rawFieldCount
)

const (
	fieldDelimiter = ";"
	nullValue      = "NULL"
)

// ErrMalformedRecord is matched by every MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports a source line with fewer fields than an export line carries.
type MalformedRecordError struct {
	Line   int
	Fields int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: got %d fields, want at least %d", e.Line, e.Fields, rawFieldCount)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// Record is a classified line, in destination column order.
type Record [recordWidth]string

// parseLine splits a raw line and reports which event type it belongs to.
// ok is false when the action type is not one we load.
func parseLine(line string, lineNo int) (rec Record, et EventType, actionType string, ok bool, err error) {
	fields := strings.Split(trimLineEnd(line), fieldDelimiter)
	if len(fields) < rawFieldCount {
		return rec, 0, "", false, &MalformedRecordError{Line: lineNo, Fields: len(fields)}
	}

	actionType = fields[fieldActionType]
	et, ok = eventTypeForAction(actionType)
	if !ok {
		return rec, 0, actionType, false, nil
	}

	rec = Record{
		fields[fieldEmail],
		fields[fieldSentDate],
		fields[fieldActivityDate],
		fields[fieldCampaign],
		fields[fieldAction],
		normalizeNullable(fields[fieldDescription]),
		normalizeNullable(fields[fieldTag]),
	}
	return rec, et, actionType, true, nil
}

// normalizeNullable maps the export's null sentinel to the literal "NULL".
func normalizeNullable(v string) string {
	if v == "\x00" || v == "\x00\n" {
		return nullValue
	}
	return v
}

func trimLineEnd(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// classifyLines routes every line of a chunk into its event batch.
// firstLine is the source line number of lines[0]. Lines with an unknown
// action type are logged and dropped; a malformed line aborts the chunk.
func classifyLines(logger log.Logger, batches *batchSet, lines []string, firstLine int) (dropped int, err error) {
	for i, line := range lines {
		lineNo := firstLine + i
		rec, et, actionType, ok, err := parseLine(line, lineNo)
		if err != nil {
			return dropped, err
		}
		if !ok {
			dropped++
			level.Debug(logger).Log("msg", "dropping line with unknown action type",
				"line", lineNo,
				"action_type", actionType)
			continue
		}
		batches.get(et).Append(rec)
	}
	return dropped, nil
}
