package mpd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pair is one "key: value" line of a daemon response.
type pair struct {
	key   string
	value string
}

// parsePair splits a response line into its key and value. Lines that do not
// follow the pair format report false and are skipped by callers.
func parsePair(line string) (pair, bool) {
	key, value, ok := strings.Cut(line, ": ")
	if ok {
		return pair{key: key, value: value}, true
	}
	// a pair with an empty value arrives without the trailing space
	if strings.HasSuffix(line, ":") {
		return pair{key: strings.TrimSuffix(line, ":")}, true
	}
	return pair{}, false
}

// Daemon error codes carried in ACK responses.
const (
	AckErrorNotList       = 1
	AckErrorArg           = 2
	AckErrorPassword      = 3
	AckErrorPermission    = 4
	AckErrorUnknown       = 5
	AckErrorNoExist       = 50
	AckErrorPlaylistMax   = 51
	AckErrorSystem        = 52
	AckErrorPlaylistLoad  = 53
	AckErrorUpdateAlready = 54
	AckErrorPlayerSync    = 55
	AckErrorExist         = 56
)

// CommandError is a daemon ACK response: the command that failed, the
// daemon's error code and its message. Index is the offset of the failing
// command within a command list, 0 outside lists.
type CommandError struct {
	Code    int
	Index   int
	Command string
	Message string
}

func (e *CommandError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("mpd: %s (code %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("mpd: %s: %s (code %d)", e.Command, e.Message, e.Code)
}

var ackPattern = regexp.MustCompile(`^ACK \[(\d+)@(\d+)\] \{([^}]*)\} (.*)$`)

// parseAck decodes an ACK line into a CommandError. Reports false for lines
// that are not ACKs.
func parseAck(line string) (*CommandError, bool) {
	m := ackPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	code, _ := strconv.Atoi(m[1])
	index, _ := strconv.Atoi(m[2])
	return &CommandError{Code: code, Index: index, Command: m[3], Message: m[4]}, true
}

// quote wraps an argument for the wire when it contains characters the
// daemon's tokenizer would split on, escaping embedded quotes and
// backslashes.
func quote(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t'\"\\") {
		return arg
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// atoi converts a numeric field, tolerating junk by falling back to def.
// Daemon versions disagree on some optional fields, so lenient parsing keeps
// responses usable.
func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// atoiPrefix parses the leading integer of values like "5/12", which some
// taggers write for track numbers.
func atoiPrefix(s string, def int) int {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return atoi(strings.TrimSpace(s), def)
}

// parseBool reads the daemon's 0/1 flags.
func parseBool(s string) bool {
	return s == "1"
}
