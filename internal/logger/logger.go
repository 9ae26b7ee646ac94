// Package logger is adapted from esbuild's internal/logger: a leveled
// Log value, colorized/TTY-aware stderr output, and the platform
// terminal-detection plumbing (logger_darwin.go/logger_linux.go/
// logger_windows.go/logger_other.go, carried over near verbatim since
// terminal detection has nothing to do with compiler logic). Dropped:
// everything that exists only to annotate a parsed-JS-file location and
// render a source excerpt with carets (the esbuild Source/Range/Loc
// types, computeLineAndColumn, tab-stop rendering, the msg_ids.go
// JS/CSS diagnostic enum) — this library never parses JavaScript, so it
// has no file contents to excerpt. Messages here are plain text, the
// way a CLI tool built on this library reports "N segments skipped" or
// "overlapping replacement" diagnostics.
package logger

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

// hasNoColorEnvironmentVariable follows the https://no-color.org/ convention,
// shared by the darwin and linux terminal-detection files.
func hasNoColorEnvironmentVariable() bool {
	return os.Getenv("NO_COLOR") != ""
}

type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool

	// Called after the build has finished but before writing to stdout, so
	// deferred warning messages end up in the terminal before stdout output.
	AlmostDone func()

	Done func() []Msg
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Note
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		panic("Internal error")
	}
}

// Msg is a single diagnostic. Unlike esbuild's, it carries no source
// location: this library's diagnostics are about mapping/replacement
// structure, not a position in a parsed file.
type Msg struct {
	Kind  MsgKind
	Text  string
	Notes []string
}

// SortableMsgs lets Go's native sort function order a message list:
// errors before warnings before notes, then alphabetically.
type SortableMsgs []Msg

func (a SortableMsgs) Len() int      { return len(a) }
func (a SortableMsgs) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a SortableMsgs) Less(i, j int) bool {
	if a[i].Kind != a[j].Kind {
		return a[i].Kind < a[j].Kind
	}
	return a[i].Text < a[j].Text
}

func plural(prefix string, count int, shown int, someAreMissing bool) string {
	var text string
	if count == 1 {
		text = fmt.Sprintf("%d %s", count, prefix)
	} else {
		text = fmt.Sprintf("%d %ss", count, prefix)
	}
	if shown < count {
		text = fmt.Sprintf("%d of %s", shown, text)
	} else if someAreMissing && count > 1 {
		text = "all " + text
	}
	return text
}

func errorAndWarningSummary(errors int, warnings int, shownErrors int, shownWarnings int) string {
	someAreMissing := shownWarnings < warnings || shownErrors < errors
	switch {
	case errors == 0:
		return plural("warning", warnings, shownWarnings, someAreMissing)
	case warnings == 0:
		return plural("error", errors, shownErrors, someAreMissing)
	default:
		return fmt.Sprintf("%s and %s",
			plural("warning", warnings, shownWarnings, someAreMissing),
			plural("error", errors, shownErrors, someAreMissing))
	}
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
	Height          int
}

func NewStderrLog(options OutputOptions) Log {
	var mutex sync.Mutex
	var msgs SortableMsgs
	terminalInfo := GetTerminalInfo(os.Stderr)
	errors := 0
	warnings := 0
	shownErrors := 0
	shownWarnings := 0
	hasErrors := false
	remainingMessagesBeforeLimit := options.MessageLimit
	if remainingMessagesBeforeLimit == 0 {
		remainingMessagesBeforeLimit = 0x7FFFFFFF
	}
	var deferredWarnings []Msg
	didFinalizeLog := false

	finalizeLog := func() {
		if didFinalizeLog {
			return
		}
		didFinalizeLog = true

		for remainingMessagesBeforeLimit > 0 && len(deferredWarnings) > 0 {
			shownWarnings++
			writeStringWithColor(os.Stderr, deferredWarnings[0].String(options, terminalInfo))
			deferredWarnings = deferredWarnings[1:]
			remainingMessagesBeforeLimit--
		}

		if options.MessageLimit > 0 && errors+warnings > options.MessageLimit {
			writeStringWithColor(os.Stderr, fmt.Sprintf("%s shown (disable the message limit with --log-limit=0)\n",
				errorAndWarningSummary(errors, warnings, shownErrors, shownWarnings)))
		} else if options.LogLevel <= LevelInfo && (warnings != 0 || errors != 0) {
			writeStringWithColor(os.Stderr, fmt.Sprintf("%s\n",
				errorAndWarningSummary(errors, warnings, shownErrors, shownWarnings)))
		}
	}

	switch options.Color {
	case ColorNever:
		terminalInfo.UseColorEscapes = false
	case ColorAlways:
		terminalInfo.UseColorEscapes = SupportsColorEscapes
	}

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			msgs = append(msgs, msg)

			switch msg.Kind {
			case Error:
				hasErrors = true
				if options.LogLevel <= LevelError {
					errors++
				}
			case Warning:
				if options.LogLevel <= LevelWarning {
					warnings++
				}
			}

			if remainingMessagesBeforeLimit == 0 {
				return
			}

			switch msg.Kind {
			case Error:
				if options.LogLevel <= LevelError {
					shownErrors++
					writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
					remainingMessagesBeforeLimit--
				}

			case Warning:
				if options.LogLevel <= LevelWarning {
					if remainingMessagesBeforeLimit > (options.MessageLimit+1)/2 {
						shownWarnings++
						writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
						remainingMessagesBeforeLimit--
					} else {
						// Wait for potential future errors instead of using up all the
						// slots with warnings, so a failed run always shows an error.
						deferredWarnings = append(deferredWarnings, msg)
					}
				}
			}
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		AlmostDone: func() {
			mutex.Lock()
			defer mutex.Unlock()
			finalizeLog()
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			finalizeLog()
			sort.Stable(msgs)
			return msgs
		},
	}
}

func NewDeferLog() Log {
	var msgs SortableMsgs
	var mutex sync.Mutex
	var hasErrors bool

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			if msg.Kind == Error {
				hasErrors = true
			}
			msgs = append(msgs, msg)
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		AlmostDone: func() {},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			sort.Stable(msgs)
			return msgs
		},
	}
}

func PrintErrorToStderr(osArgs []string, text string) {
	PrintMessageToStderr(osArgs, Msg{Kind: Error, Text: text})
}

func OutputOptionsForArgs(osArgs []string) OutputOptions {
	var options OutputOptions

	// A mini argument parser so these options always work even before the
	// general-purpose argument parsing code runs.
	for _, arg := range osArgs {
		switch arg {
		case "--color=false":
			options.Color = ColorNever
		case "--color=true":
			options.Color = ColorAlways
		case "--log-level=info":
			options.LogLevel = LevelInfo
		case "--log-level=warning":
			options.LogLevel = LevelWarning
		case "--log-level=error":
			options.LogLevel = LevelError
		case "--log-level=silent":
			options.LogLevel = LevelSilent
		}
	}

	return options
}

func PrintMessageToStderr(osArgs []string, msg Msg) {
	log := NewStderrLog(OutputOptionsForArgs(osArgs))
	log.AddMsg(msg)
	log.Done()
}

type Colors struct {
	Reset     string
	Bold      string
	Dim       string
	Underline string

	Red   string
	Green string
	Blue  string

	Cyan    string
	Magenta string
	Yellow  string
}

var TerminalColors = Colors{
	Reset:     "\033[0m",
	Bold:      "\033[1m",
	Dim:       "\033[37m",
	Underline: "\033[4m",

	Red:   "\033[31m",
	Green: "\033[32m",
	Blue:  "\033[34m",

	Cyan:    "\033[36m",
	Magenta: "\033[35m",
	Yellow:  "\033[33m",
}

// These mirror TerminalColors' escape sequences so logger_windows.go can
// scan rendered text for them and translate each into a SetConsoleTextAttribute
// call instead. colorResetDim/colorResetBold/colorResetUnderline are compound
// reset sequences that the windows translator also recognizes; nothing in
// this package emits them.
const (
	colorReset     = "\033[0m"
	colorBold      = "\033[1m"
	colorDim       = "\033[37m"
	colorUnderline = "\033[4m"

	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"

	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorYellow  = "\033[33m"

	colorResetDim       = "\033[0;37m"
	colorResetBold      = "\033[0;1m"
	colorResetUnderline = "\033[0;4m"
)

func PrintText(file *os.File, level LogLevel, osArgs []string, callback func(Colors) string) {
	options := OutputOptionsForArgs(osArgs)
	if options.LogLevel > level {
		return
	}
	PrintTextWithColor(file, options.Color, callback)
}

func PrintTextWithColor(file *os.File, useColor UseColor, callback func(Colors) string) {
	var useColorEscapes bool
	switch useColor {
	case ColorNever:
		useColorEscapes = false
	case ColorAlways:
		useColorEscapes = SupportsColorEscapes
	case ColorIfTerminal:
		useColorEscapes = GetTerminalInfo(file).UseColorEscapes
	}

	var colors Colors
	if useColorEscapes {
		colors = TerminalColors
	}
	writeStringWithColor(file, callback(colors))
}

type UseColor uint8

const (
	ColorIfTerminal UseColor = iota
	ColorNever
	ColorAlways
)

type OutputOptions struct {
	MessageLimit int
	Color        UseColor
	LogLevel     LogLevel
}

// String renders a single message as one line (plus one indented line
// per note), colorized by kind. There is no source excerpt to render.
func (msg Msg) String(options OutputOptions, terminalInfo TerminalInfo) string {
	var colors Colors
	if terminalInfo.UseColorEscapes {
		colors = TerminalColors
	}

	text := msgLine(colors, msg.Kind, msg.Text)
	for _, note := range msg.Notes {
		text += msgLine(colors, Note, note)
	}
	return text
}

func msgLine(colors Colors, kind MsgKind, text string) string {
	var kindColor string
	switch kind {
	case Error:
		kindColor = colors.Red
	case Warning:
		kindColor = colors.Magenta
	case Note:
		kindColor = colors.Bold
	default:
		panic("Internal error")
	}
	return fmt.Sprintf("%s%s%s: %s%s\n", colors.Bold, kindColor, kind.String(), colors.Reset, text)
}

func (log Log) AddError(text string) {
	log.AddMsg(Msg{Kind: Error, Text: text})
}

func (log Log) AddErrorWithNotes(text string, notes []string) {
	log.AddMsg(Msg{Kind: Error, Text: text, Notes: notes})
}

func (log Log) AddWarning(text string) {
	log.AddMsg(Msg{Kind: Warning, Text: text})
}

func (log Log) AddWarningWithNotes(text string, notes []string) {
	log.AddMsg(Msg{Kind: Warning, Text: text, Notes: notes})
}

