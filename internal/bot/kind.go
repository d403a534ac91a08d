package bot

import "strings"

// Kind identifies a chat command. Dispatch is a switch over this closed
// set; unknown "!" words become KindCustom and are answered from the text
// command store.
type Kind int

const (
	KindNone Kind = iota
	KindChamp
	KindToday
	KindLast
	KindLP
	KindRunes
	KindLastGM
	KindLastChal
	KindOpGG
	KindAccs
	KindAddAcc
	KindRmAcc
	KindAddCmd
	KindRmCmd
	KindOptions
	KindTest
	KindCustom
)

// Command is a parsed chat command.
type Command struct {
	Kind Kind
	// Name is the resolved command word including the "!", lowercased,
	// after alias expansion.
	Name string
	Args []string
}

var kindByName = map[string]Kind{
	"!champ":    KindChamp,
	"!today":    KindToday,
	"!last":     KindLast,
	"!lp":       KindLP,
	"!runes":    KindRunes,
	"!lastgm":   KindLastGM,
	"!lastchal": KindLastChal,
	"!opgg":     KindOpGG,
	"!accs":     KindAccs,
	"!addacc":   KindAddAcc,
	"!rmacc":    KindRmAcc,
	"!add":      KindAddCmd,
	"!rm":       KindRmCmd,
	"!options":  KindOptions,
	"!test":     KindTest,
}

// aliases maps alternate spellings, Russian ones included, onto canonical
// command names.
var aliases = map[string]string{
	"!чемп":    "!champ",
	"!винрейт": "!champ",
	"!сегодня": "!today",
	"!руны":    "!runes",
	"!ранг":    "!lp",
	"!лп":      "!lp",
}

// toggleable lists the public commands !options can switch on and off.
var toggleable = map[string]bool{
	"!champ":    true,
	"!today":    true,
	"!last":     true,
	"!lp":       true,
	"!runes":    true,
	"!lastgm":   true,
	"!lastchal": true,
	"!opgg":     true,
}

// Parse splits a chat line into a command. Lines not starting with "!"
// yield KindNone.
func Parse(text string) Command {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "!") {
		return Command{Kind: KindNone}
	}

	name := strings.ToLower(fields[0])
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	kind, ok := kindByName[name]
	if !ok {
		kind = KindCustom
	}
	return Command{Kind: kind, Name: name, Args: fields[1:]}
}
