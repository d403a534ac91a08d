package twitch

import "strings"

// Message is a chat message received from a joined channel.
type Message struct {
	Channel string
	User    string
	Display string
	Text    string
	Badges  map[string]string
}

// IsBroadcaster reports whether the sender owns the channel.
func (m *Message) IsBroadcaster() bool {
	_, ok := m.Badges["broadcaster"]
	return ok
}

// IsModerator reports whether the sender moderates the channel. The
// broadcaster counts as a moderator.
func (m *Message) IsModerator() bool {
	if m.IsBroadcaster() {
		return true
	}
	_, ok := m.Badges["moderator"]
	return ok
}

// parseLine parses a single raw IRC line into its tag, prefix, command and
// parameter parts.
type ircLine struct {
	tags    map[string]string
	prefix  string
	command string
	params  []string
	// trailing is the final parameter, the part after " :".
	trailing string
}

func parseLine(raw string) ircLine {
	line := ircLine{tags: map[string]string{}}
	rest := strings.TrimSuffix(raw, "\r")

	if strings.HasPrefix(rest, "@") {
		tagPart, remainder, ok := strings.Cut(rest[1:], " ")
		if !ok {
			return line
		}
		for _, pair := range strings.Split(tagPart, ";") {
			key, value, _ := strings.Cut(pair, "=")
			line.tags[key] = value
		}
		rest = remainder
	}

	if strings.HasPrefix(rest, ":") {
		prefix, remainder, ok := strings.Cut(rest[1:], " ")
		if !ok {
			return line
		}
		line.prefix = prefix
		rest = remainder
	}

	if before, trailing, ok := strings.Cut(rest, " :"); ok {
		line.trailing = trailing
		rest = before
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return line
	}
	line.command = fields[0]
	line.params = fields[1:]
	return line
}

// nick extracts the sender's nickname from an IRC prefix of the form
// "nick!user@host".
func (l ircLine) nick() string {
	nick, _, _ := strings.Cut(l.prefix, "!")
	return nick
}

// privmsg converts a parsed PRIVMSG line into a Message. Returns false for
// any other command or a malformed line.
func (l ircLine) privmsg() (Message, bool) {
	if l.command != "PRIVMSG" || len(l.params) == 0 {
		return Message{}, false
	}

	msg := Message{
		Channel: strings.TrimPrefix(l.params[0], "#"),
		User:    l.nick(),
		Display: l.tags["display-name"],
		Text:    l.trailing,
		Badges:  map[string]string{},
	}
	if msg.Display == "" {
		msg.Display = msg.User
	}
	if badges := l.tags["badges"]; badges != "" {
		for _, badge := range strings.Split(badges, ",") {
			name, version, _ := strings.Cut(badge, "/")
			msg.Badges[name] = version
		}
	}
	return msg, true
}
