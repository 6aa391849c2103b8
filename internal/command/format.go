package command

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/wardroomhq/wardroom/internal/chat"
	"github.com/wardroomhq/wardroom/internal/core"
	"github.com/wardroomhq/wardroom/internal/types"
)

var (
	noColor = os.Getenv("NO_COLOR") != ""

	dim   = ansiCode("\x1b[2m")
	bold  = ansiCode("\x1b[1m")
	reset = ansiCode("\x1b[0m")
	cyan  = ansiCode("\x1b[36m")
	green = ansiCode("\x1b[32m")
)

var userColors = []string{
	ansiCode("\x1b[38;5;111m"),
	ansiCode("\x1b[38;5;157m"),
	ansiCode("\x1b[38;5;216m"),
	ansiCode("\x1b[38;5;36m"),
	ansiCode("\x1b[38;5;183m"),
	ansiCode("\x1b[38;5;230m"),
}

var mentionRe = regexp.MustCompile(`@([a-z][a-z0-9]*(?:[-\.][a-z0-9]+)*)`)

func ansiCode(code string) string {
	if noColor {
		return ""
	}
	return code
}

// getUserColor picks a stable color for a username.
func getUserColor(username string) string {
	if len(userColors) == 0 || userColors[0] == "" {
		return ""
	}
	var sum int
	for _, r := range username {
		sum += int(r)
	}
	return userColors[sum%len(userColors)]
}

// FormatMessage formats one message line for display. selfID controls
// whether the author's delivery mark is shown; othersOnline feeds the
// single/double mark choice.
func FormatMessage(msg types.Message, selfID string, othersOnline bool, now time.Time) string {
	idBlock := fmt.Sprintf("%s[%s %s]%s", dim, core.GetGUIDPrefix(msg.ID, 6), core.FormatClock(msg.TS, now), reset)

	suffix := ""
	if msg.Edited && !msg.Deleted {
		suffix = dim + " (edited)" + reset
	}
	if msg.Pinned {
		suffix += " 📌"
	}
	if msg.AuthorID == selfID && !msg.Deleted {
		suffix += " " + dim + chat.MarkFor(msg, othersOnline).String() + reset
	}

	body := msg.Body
	if msg.Deleted {
		body = dim + body + reset
	} else {
		body = highlightMentions(body)
	}

	author := msg.AuthorUsername
	if color := getUserColor(author); color != "" {
		author = color + msg.AuthorAvatar + " " + author + reset
	} else if msg.AuthorAvatar != "" {
		author = msg.AuthorAvatar + " " + author
	}

	line := fmt.Sprintf("%s %s: %s%s", idBlock, author, body, suffix)
	if reactions := formatReactions(msg.Reactions); reactions != "" {
		line += "\n" + "       " + dim + reactions + reset
	}
	return line
}

// formatReactions renders "👍 2  🔥 1" style reaction tallies.
func formatReactions(reactions map[string][]string) string {
	if len(reactions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(reactions))
	for emoji, users := range reactions {
		parts = append(parts, fmt.Sprintf("%s %d", emoji, len(users)))
	}
	return strings.Join(parts, "  ")
}

// FormatUser renders a roster line for a user.
func FormatUser(user types.User, now time.Time) string {
	state := dim + "offline" + reset
	if user.Online(now) {
		state = green + "online" + reset
		if user.Typing {
			state = cyan + "typing…" + reset
		}
	}
	return fmt.Sprintf("%s %s%s%s  %s  %sseen %s%s",
		user.Avatar, bold, user.Username, reset, state, dim, core.FormatRelative(user.LastSeen), reset)
}

func highlightMentions(body string) string {
	if cyan == "" {
		return body
	}
	return mentionRe.ReplaceAllString(body, cyan+"@$1"+reset)
}

// mentionsUser reports whether a message body mentions the username.
func mentionsUser(body, username string) bool {
	for _, match := range mentionRe.FindAllStringSubmatch(body, -1) {
		if strings.EqualFold(match[1], username) {
			return true
		}
	}
	return false
}
