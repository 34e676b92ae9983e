package services

// Command is a recognized chat command
type Command int

const (
	CommandUnknown Command = iota
	CommandGreet
	CommandStartSearch
	CommandRestart
	CommandRepeat
	CommandNext
	CommandLike
	CommandDislike
	CommandFavorites
	CommandStop
)

// Button labels double as command texts
const (
	LabelGreet       = "Начать"
	LabelStartSearch = "Начать поиск \U0001F495"
	LabelRepeat      = "Повторить ♻"
	LabelLike        = "\U0001F44D"
	LabelDislike     = "\U0001F44E"
	LabelNext        = "Далее \U0001F500"
	LabelFavorites   = "Показать понравившихся \U0001F60D"
	LabelRestart     = "Начать сначала \U0001F504"
	LabelStop        = "Стоп"
	LabelRepository  = "Репозиторий в GitHub \U0001F40D"
)

var commandsByText = map[string]Command{
	LabelGreet:       CommandGreet,
	LabelStartSearch: CommandStartSearch,
	LabelRestart:     CommandRestart,
	LabelRepeat:      CommandRepeat,
	LabelNext:        CommandNext,
	LabelLike:        CommandLike,
	LabelDislike:     CommandDislike,
	LabelFavorites:   CommandFavorites,
	LabelStop:        CommandStop,
}

var commandNames = map[Command]string{
	CommandUnknown:     "unknown",
	CommandGreet:       "greet",
	CommandStartSearch: "start_search",
	CommandRestart:     "restart",
	CommandRepeat:      "repeat",
	CommandNext:        "next",
	CommandLike:        "like",
	CommandDislike:     "dislike",
	CommandFavorites:   "favorites",
	CommandStop:        "stop",
}

// ParseCommand maps a message text to a command
func ParseCommand(text string) Command {
	if cmd, ok := commandsByText[text]; ok {
		return cmd
	}
	return CommandUnknown
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}
