package report

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about change results
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogChangeResult prints one instruction outcome with an appropriate
// prefix and mirrors it to zerolog
func (u *UserLogger) LogChangeResult(result ChangeResult) {
	var prefix string
	var printer *pterm.PrefixPrinter
	switch {
	case result.Status == StatusSuccess && result.MultipleMatches:
		prefix = "⚠️"
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: prefix})
	case result.Status == StatusSuccess:
		prefix = "✨"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: prefix})
	case result.ErrorKind == ErrorKindNotFound:
		prefix = "🔍"
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: prefix})
	default:
		prefix = "❌"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: prefix})
	}

	msg := fmt.Sprintf("%s %s", result.ChangeID, result.Operation)
	switch {
	case result.Status == StatusSuccess && result.InTable:
		msg += " (applied in table)"
	case result.Status == StatusSuccess && result.MultipleMatches:
		msg += " (multiple matches, first occurrence edited)"
	case result.Status != StatusSuccess:
		msg += fmt.Sprintf(" (%s)", result.ErrorKind)
	}

	printer.Println(msg)
	if result.Status == StatusSuccess {
		u.log.Info().Str("change_id", result.ChangeID).Msg(msg)
	} else {
		u.log.Warn().
			Str("change_id", result.ChangeID).
			Str("error_kind", string(result.ErrorKind)).
			Str("message", result.Message).
			Msg(msg)
	}
}

// 📊 LogSummary prints the aggregated outcome of one apply pass
func (u *UserLogger) LogSummary(path string, summary Summary) {
	description := fmt.Sprintf("%s: %d/%d changes applied", path, summary.Successful, summary.TotalChanges)
	if summary.Failed == 0 {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
	} else {
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Printf("%s (%d failed)\n", description, summary.Failed)
		u.log.Warn().Int("failed", summary.Failed).Msg(description)
	}
}
