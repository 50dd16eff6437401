// Package fancy prints colored console output
package fancy

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
)

var (
	Info    = aurora.White
	Success = aurora.Green
	Warn    = aurora.Yellow
	Error   = aurora.Red
	Note    = aurora.Cyan
)

type Level = func(arg any) aurora.Value

// StatusLevel returns the level a payment status is printed with.
func StatusLevel(status string) Level {
	switch status {
	case "success":
		return Success
	case "failed":
		return Error
	case "pending", "partial":
		return Warn
	default:
		return Info
	}
}

func Sprint(level Level, args ...any) string {
	return level(fmt.Sprint(args...)).String()
}

func Println(level Level, args ...any) {
	fmt.Println(level(fmt.Sprint(args...)))
}

func Printf(level Level, format string, args ...any) {
	fmt.Print(level(fmt.Sprintf(format, args...)))
}

func Warnln(args ...any) {
	Println(Warn, args...)
}

func Errorln(args ...any) {
	Println(Error, args...)
}

func Fprintln(w io.Writer, level Level, args ...any) {
	_, _ = fmt.Fprintln(w, level(fmt.Sprint(args...)))
}

func Fprintf(w io.Writer, level Level, format string, args ...any) {
	_, _ = fmt.Fprint(w, level(fmt.Sprintf(format, args...)))
}

func Finfoln(w io.Writer, args ...any) {
	Fprintln(w, Info, args...)
}

func Fsuccessln(w io.Writer, args ...any) {
	Fprintln(w, Success, args...)
}

func Fwarnln(w io.Writer, args ...any) {
	Fprintln(w, Warn, args...)
}

func Ferrorln(w io.Writer, args ...any) {
	Fprintln(w, Error, args...)
}
